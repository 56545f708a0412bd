package service

import (
	"fmt"
	"html"

	"expensehub/config"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg     *config.EmailConfig
	baseURL string
	send    func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig, baseURL string) *EmailService {
	s := &EmailService{cfg: cfg, baseURL: baseURL}
	s.send = s.dialAndSend
	return s
}

// Enabled 是否启用邮件发送
func (s *EmailService) Enabled() bool {
	return s.cfg != nil && s.cfg.Enabled
}

// SendInvitationEmail 向尚未注册的邮箱发送账本邀请
func (s *EmailService) SendInvitationEmail(toEmail, inviterName, itemName string) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用，请配置 EXPENSEHUB_EMAIL_ENABLED=true")
	}

	subject := fmt.Sprintf("【ExpenseHub】%s 邀请你加入「%s」", inviterName, itemName)
	body := s.generateInvitationEmailBody(inviterName, itemName, s.baseURL)

	return s.sendEmail(toEmail, subject, body)
}

// generateInvitationEmailBody 生成邀请邮件内容
func (s *EmailService) generateInvitationEmailBody(inviterName, itemName, link string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; }
        .header { background: #0f766e; color: white; padding: 24px; text-align: center; }
        .content { padding: 32px 28px; color: #333; line-height: 1.8; }
        .btn { display: inline-block; background: #0f766e; color: white !important; text-decoration: none; padding: 12px 36px; border-radius: 8px; }
        .footer { background: #f8f9fa; padding: 16px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h2>ExpenseHub</h2></div>
        <div class="content">
            <p><strong>%s</strong> 邀请你一起记录共享账本「<strong>%s</strong>」的消费。</p>
            <p>使用本邮箱注册账号后，将自动加入该账本。</p>
            <p style="text-align: center;"><a href="%s" class="btn">立即注册</a></p>
        </div>
        <div class="footer"><p>此邮件由系统自动发送，请勿回复</p></div>
    </div>
</body>
</html>
`, html.EscapeString(inviterName), html.EscapeString(itemName), html.EscapeString(link))
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
