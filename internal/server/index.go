package server

const indexHTML = `<!DOCTYPE html>
<html>
    <head>
        <title>Lab Test OCR API</title>
        <style>
            body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
            h1 { color: #333; }
            form { margin-top: 20px; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
            button { background-color: #4CAF50; color: white; padding: 10px 15px; border: none; border-radius: 4px; cursor: pointer; }
            button:hover { background-color: #45a049; }
            #result { margin-top: 20px; padding: 10px; border: 1px solid #ddd; border-radius: 5px; white-space: pre-wrap; }
            .loading { display: none; margin-left: 10px; }
        </style>
    </head>
    <body>
        <h1>Lab Test OCR API</h1>
        <p>Upload a lab test image to extract test results using OCR. Only POST requests are allowed.</p>

        <form id="upload-form" enctype="multipart/form-data">
            <input type="file" id="file-input" name="file" accept="image/*" required>
            <button type="submit">Process Image</button>
            <span class="loading" id="loading">Processing...</span>
        </form>

        <div id="result"></div>

        <script>
            document.getElementById('upload-form').addEventListener('submit', async (e) => {
                e.preventDefault();

                const formData = new FormData();
                const fileInput = document.getElementById('file-input');
                formData.append('file', fileInput.files[0]);

                document.getElementById('loading').style.display = 'inline';
                document.getElementById('result').textContent = '';

                try {
                    const response = await fetch('/get-lab-tests', {
                        method: 'POST',
                        body: formData,
                    });

                    const data = await response.json();
                    document.getElementById('result').textContent = JSON.stringify(data, null, 2);
                } catch (error) {
                    document.getElementById('result').textContent = 'Error: ' + error.message;
                } finally {
                    document.getElementById('loading').style.display = 'none';
                }
            });
        </script>
    </body>
</html>
`
