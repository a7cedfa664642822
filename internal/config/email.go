package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewMailConfig() *MailConfig {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := 465
	if p := os.Getenv("SMTP_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			log.Fatal("Invalid SMTP_PORT:", err)
		}
		port = parsed
	}
	username := os.Getenv("USER_EMAIL")
	password := os.Getenv("USER_PASSWORD")
	if username == "" || password == "" {
		log.Fatal("Missing SMTP credentials (USER_EMAIL / USER_PASSWORD)")
	}
	return &MailConfig{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     username,
	}
}

type EmailService struct {
	config *MailConfig
	dialer *gomail.Dialer
	logger *zap.Logger
}

func NewEmailService(lc fx.Lifecycle, config *MailConfig, logger *zap.Logger) *EmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	service := &EmailService{config: config, dialer: dialer, logger: logger}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Email service initialized", zap.String("host", config.Host))
			return nil
		},
	})
	return service
}

func (e *EmailService) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := e.dialer.DialAndSend(m); err != nil {
		e.logger.Error("Failed to send email", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}
	e.logger.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// SendPasswordResetMail delivers the reset OTP. The code expires five minutes
// after issuance, which the template tells the user.
func (e *EmailService) SendPasswordResetMail(to, otp string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9fafb;">
			<div style="background-color: white; padding: 30px; border-radius: 10px;">
				<h2 style="color: #4f46e5; text-align: center;">Password Reset Request</h2>
				<p style="color: #374151; font-size: 16px;">Hello,</p>
				<p style="color: #374151; font-size: 16px;">
					You requested to reset your password for your InstructoPlus account. Use the OTP below to reset your password:
				</p>
				<div style="text-align: center; margin: 30px 0;">
					<span style="background-color: #4f46e5; color: white; padding: 15px 30px; font-size: 24px; font-weight: bold; border-radius: 8px; letter-spacing: 3px;">%s</span>
				</div>
				<p style="color: #ef4444; font-size: 14px; text-align: center;">
					This OTP expires in 5 minutes for security reasons.
				</p>
				<p style="color: #6b7280; font-size: 14px;">
					If you didn't request this password reset, please ignore this email or contact our support team.
				</p>
				<p style="color: #9ca3af; font-size: 12px; text-align: center;">
					Best regards,<br>The InstructoPlus Team
				</p>
			</div>
		</div>`, otp)
	return e.send(to, "Reset Your Password - InstructoPlus", body)
}

// SendAnnouncementMail delivers one announcement to one recipient. Recipients
// are always mailed individually so addresses are not exposed to each other.
func (e *EmailService) SendAnnouncementMail(to, subject, title, description, attachmentURL, senderName string) error {
	if senderName == "" {
		senderName = "Your Instructor"
	}
	attachmentBlock := ""
	if attachmentURL != "" {
		attachmentBlock = fmt.Sprintf(`
			<div style="margin: 20px 0; padding: 15px; background-color: #eff6ff; border-radius: 8px; border-left: 4px solid #3b82f6;">
				<p style="color: #1e40af; margin: 0; font-weight: 500;">Attachment Available</p>
				<a href="%s" style="color: #2563eb; text-decoration: none; font-size: 14px;">Click here to view attachment</a>
			</div>`, attachmentURL)
	}
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9fafb;">
			<div style="background-color: white; padding: 30px; border-radius: 10px;">
				<div style="text-align: center; margin-bottom: 30px;">
					<h2 style="color: #4f46e5; margin: 0;">New Announcement</h2>
					<p style="color: #6b7280; margin: 5px 0;">from %s</p>
				</div>
				<div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
					<h3 style="color: #1f2937; margin: 0 0 15px 0;">%s</h3>
					<p style="color: #374151; font-size: 16px; margin: 0;">%s</p>
				</div>
				%s
				<p style="color: #9ca3af; font-size: 12px; text-align: center;">
					This announcement was sent through InstructoPlus.<br>Best regards, The InstructoPlus Team
				</p>
			</div>
		</div>`, senderName, title, description, attachmentBlock)
	return e.send(to, subject, body)
}
