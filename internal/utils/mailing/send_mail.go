package mailing

import (
	"bytes"
	"errors"
	"html/template"
	"strconv"

	"food-recognizer/internal/utils"

	"gopkg.in/gomail.v2"
)

var ErrMailNotConfigured = errors.New("smtp is not configured")

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<p>Hi {{.Username}},</p>
<p>Your account is ready. Upload a photo of your meal and we will log what you ate.</p>
{{if .AppURL}}<p><a href="{{.AppURL}}">{{.AppURL}}</a></p>{{end}}`))

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func (m MailConfig) Enabled() bool {
	return m.SMTPHost != "" && m.SMTPPort != "" && m.SMTPEmail != ""
}

func SendMail(toEmail string, subject string, body string) error {
	emailConfig := LoadMailConfig()
	if !emailConfig.Enabled() {
		return ErrMailNotConfigured
	}

	mailer := gomail.NewMessage()
	if emailConfig.SMTPSender != "" {
		mailer.SetAddressHeader("From", emailConfig.SMTPEmail, emailConfig.SMTPSender)
	} else {
		mailer.SetHeader("From", emailConfig.SMTPEmail)
	}
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(emailConfig.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		emailConfig.SMTPHost,
		port,
		emailConfig.SMTPEmail,
		emailConfig.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

func WelcomeBody(username string) (string, error) {
	var buf bytes.Buffer
	err := welcomeTemplate.Execute(&buf, struct {
		Username string
		AppURL   string
	}{username, utils.GetConfig("APP_URL")})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func SendWelcomeMail(toEmail, username string) error {
	body, err := WelcomeBody(username)
	if err != nil {
		return err
	}
	return SendMail(toEmail, "Welcome to Food Recognizer", body)
}
