package services

const verificationEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            margin: 0;
            padding: 0;
            background-color: #f5f5f5;
        }
        .container {
            max-width: 600px;
            margin: 40px auto;
            background: white;
            border-radius: 8px;
            overflow: hidden;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
        }
        .header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 40px 30px;
            text-align: center;
        }
        .header h1 {
            margin: 0;
            font-size: 28px;
            font-weight: 600;
        }
        .content {
            padding: 40px 30px;
        }
        .content p {
            margin: 0 0 20px 0;
            font-size: 16px;
            color: #4a5568;
        }
        .button-container {
            text-align: center;
            margin: 30px 0;
        }
        .button {
            display: inline-block;
            background: #667eea;
            color: white;
            padding: 14px 32px;
            text-decoration: none;
            border-radius: 6px;
            font-weight: 600;
            font-size: 16px;
        }
        .warning {
            background: #fef3c7;
            border-left: 4px solid #f59e0b;
            padding: 12px 16px;
            margin: 20px 0;
            border-radius: 4px;
            font-size: 14px;
            color: #92400e;
        }
        .footer {
            background: #f7fafc;
            padding: 20px 30px;
            text-align: center;
            font-size: 13px;
            color: #a0aec0;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Welcome to Planora</h1>
        </div>
        <div class="content">
            <p>Hi {{.Username}},</p>
            <p>Thanks for signing up. Confirm your email address to activate your account:</p>
            <div class="button-container">
                <a href="{{.VerifyLink}}" class="button">Verify Email</a>
            </div>
            <div class="warning">
                This link expires in 24 hours. If you didn't create an account, you can safely ignore this email.
            </div>
        </div>
        <div class="footer">
            <p>This is an automated message from Planora. Please do not reply.</p>
        </div>
    </div>
</body>
</html>`

// VerificationEmailData holds the template data for verification emails
type VerificationEmailData struct {
	Username   string
	VerifyLink string
}
