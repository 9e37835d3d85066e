package email

// adminNotificationHTML is the HTML template for contact form emails
const adminNotificationHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Form Submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #f4f4f4; padding: 20px; border-radius: 5px; margin-bottom: 20px; }
        .content { background-color: #fff; padding: 20px; border: 1px solid #ddd; border-radius: 5px; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .value { margin-top: 5px; }
        .footer { margin-top: 20px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>New Contact Form Submission</h2>
            <p>You have received a new message from your website contact form.</p>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">Name:</div>
                <div class="value">{{.FirstName}} {{.LastName}}</div>
            </div>
            <div class="field">
                <div class="label">Email:</div>
                <div class="value">{{.Email}}</div>
            </div>
            <div class="field">
                <div class="label">Subject:</div>
                <div class="value">{{.Subject}}</div>
            </div>
            <div class="field">
                <div class="label">Message:</div>
                <div class="value" style="white-space: pre-wrap;">{{.Message}}</div>
            </div>
        </div>
        <div class="footer">
            <p>This message was sent from your website contact form on {{.SentAt}}.</p>
        </div>
    </div>
</body>
</html>`

const adminNotificationText = `New Contact Form Submission

Name: {{.FirstName}} {{.LastName}}
Email: {{.Email}}
Subject: {{.Subject}}

Message:
{{.Message}}

Sent: {{.SentAt}}
`

const acknowledgmentHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Thank You for Reaching Out</title>
    <style>
        body { font-family: 'Segoe UI', Arial, sans-serif; line-height: 1.7; color: #2d3748; background-color: #f7fafc; }
        .container { max-width: 600px; margin: 0 auto; padding: 30px 20px; }
        .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
        .header h2 { color: #ffffff; margin: 0; font-size: 24px; font-weight: 600; }
        .content { background-color: #ffffff; padding: 30px; border: 1px solid #e2e8f0; border-top: none; border-radius: 0 0 10px 10px; }
        .greeting { font-size: 18px; color: #2d3748; margin-bottom: 20px; }
        .message-text { color: #4a5568; margin-bottom: 15px; }
        .highlight { background-color: #edf2f7; padding: 15px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #667eea; }
        .social-links { margin: 25px 0; padding: 20px 0; border-top: 1px solid #e2e8f0; border-bottom: 1px solid #e2e8f0; }
        .social-links a { color: #667eea; text-decoration: none; margin-right: 20px; font-weight: 500; }
        .signature .name { font-weight: 600; color: #2d3748; font-size: 16px; }
        .signature .title { color: #718096; font-size: 14px; margin-top: 3px; }
        .footer { text-align: center; margin-top: 20px; font-size: 12px; color: #a0aec0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>Thank You for Reaching Out!</h2>
        </div>
        <div class="content">
            <p class="greeting">Hi {{.FirstName}},</p>
            <p class="message-text">Thank you for getting in touch! I've received your message and truly appreciate you taking the time to reach out.</p>
            <div class="highlight">
                <p style="margin: 0; color: #4a5568;">I'll review your message and get back to you within <strong>{{.ResponseWindow}}</strong>. If your inquiry is urgent, feel free to connect with me directly on LinkedIn.</p>
            </div>
            <p class="message-text">In the meantime, you might find these helpful:</p>
            <div class="social-links">
                <p>Let's Connect:</p>
                {{range .Links}}<a href="{{.URL}}" target="_blank">{{.Name}}</a>
                {{end}}
            </div>
            <div class="signature">
                <p class="name">{{.OwnerName}}</p>
                {{if .OwnerTitle}}<p class="title">{{.OwnerTitle}}</p>{{end}}
            </div>
        </div>
        <div class="footer">
            <p>This is an automated response from my portfolio website.</p>
        </div>
    </div>
</body>
</html>`

const acknowledgmentText = `Hi {{.FirstName}},

Thank you for getting in touch! I've received your message and truly appreciate you taking the time to reach out.

I'll review your message and get back to you within {{.ResponseWindow}}. If your inquiry is urgent, feel free to connect with me directly on LinkedIn.

Let's Connect:
{{range .Links}}- {{.Name}}: {{.URL}}
{{end}}
Best regards,
{{.OwnerName}}
{{- if .OwnerTitle}}
{{.OwnerTitle}}
{{- end}}

---
This is an automated response from my portfolio website.
`
