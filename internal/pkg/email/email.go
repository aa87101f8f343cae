package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/alphaowl/premium_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendPaymentVerified 核验通过通知（附会员到期时间）
func (s *Service) SendPaymentVerified(to, tier, billingCycle, premiumUntil string) error {
	subject := "Payment verified - Premium activated"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #10b981;">Payment Verified</h2>
        <p>Hi,</p>
        <p>Your payment has been verified and your premium subscription is now active.</p>
        <div style="background-color: #f3f4f6; padding: 15px; margin: 20px 0;">
            <p style="margin: 5px 0;">Plan: <strong>%s (%s)</strong></p>
            <p style="margin: 5px 0;">Premium active until: <strong>%s</strong></p>
        </div>
        <p>You now have access to premium articles, verified airdrops and early market signals.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>
`, tier, billingCycle, premiumUntil)

	return s.sendHTML(to, subject, body)
}

// SendPaymentRejected 核验未通过通知
func (s *Service) SendPaymentRejected(to string) error {
	subject := "Payment could not be verified"
	body := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #ef4444;">Payment Not Verified</h2>
        <p>Hi,</p>
        <p>We could not match your reported payment against our deposit records.</p>
        <p>If you believe this is a mistake, please reply with your transaction hash or a
        screenshot of the transfer and we will take another look.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>
`

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
