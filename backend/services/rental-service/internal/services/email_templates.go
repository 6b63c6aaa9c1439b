package services

const emailLayoutHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #1f2937; background-color: #f4f7f6; margin: 0; padding: 20px; }
.container { padding: 20px; max-width: 600px; margin: 20px auto; background-color: #ffffff; border: 1px solid #d1e7dd; border-radius: 8px; }
.header { font-size: 24px; font-weight: bold; color: #1b6b4a; margin-bottom: 15px; }
.content { padding: 20px; }
.button { display: inline-block; background-color: #1b6b4a; color: #ffffff !important; text-decoration: none; padding: 12px 24px; border-radius: 6px; font-weight: bold; margin: 20px 0; }
.code { font-family: monospace; font-size: 14px; background-color: #f1f3f5; padding: 10px; border-radius: 5px; word-break: break-all; }
.footer { margin-top: 20px; font-size: 12px; color: #6b7280; text-align: center; }
p { margin-bottom: 1em; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h2>%s</h2>
    </div>
    <div class="content">
      %s
    </div>
    <div class="footer">
      © %d %s. All rights reserved.
    </div>
  </div>
</body>
</html>`

const coDebtorConfirmationBody = `<p>Hello %s,</p>
<p>You have been named as co-debtor on a rental application. If you agree to act as guarantor, please confirm using the button below. The link expires in 24 hours.</p>
<p><a class="button" href="%s">Confirm as co-debtor</a></p>
<p>If you did not expect this email you can ignore it.</p>`

const registrationBody = `<p>Hello %s,</p>
<p>Your rental contract has been initiated. To continue, create your account with the registration code below. It expires in 72 hours.</p>
<div class="code">%s</div>
<p><a class="button" href="%s">Complete registration</a></p>`

const continueBody = `<p>Hello %s,</p>
<p>Your rental contract has been initiated. Sign in to continue with the next steps of your application.</p>
<p><a class="button" href="%s">Continue</a></p>`
