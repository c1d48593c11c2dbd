package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"lms/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends an HTML email through SendGrid when an API key is
// configured, otherwise through plain SMTP.
func SendEmail(to []string, subject string, htmlBody string) error {
	if config.AppConfig.SendGridApiKey != "" {
		return sendViaSendGrid(to, subject, htmlBody)
	}
	return sendViaSMTP(to, subject, htmlBody)
}

func sendViaSendGrid(to []string, subject string, htmlBody string) error {
	from := mail.NewEmail("LMS", config.AppConfig.EmailSender)
	client := sendgrid.NewSendClient(config.AppConfig.SendGridApiKey)

	for _, recipient := range to {
		message := mail.NewSingleEmail(from, subject, mail.NewEmail("", recipient), "", htmlBody)
		resp, err := client.Send(message)
		if err != nil {
			log.Printf("SendGrid error for %s: %v", recipient, err)
			return err
		}
		if resp.StatusCode >= 400 {
			log.Printf("SendGrid rejected email for %s: %d %s", recipient, resp.StatusCode, resp.Body)
			return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
		}
	}
	return nil
}

func sendViaSMTP(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LMS <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all outgoing emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A2B4C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A2B4C; line-height: 1.6; }
			.content h2 { color: #1A2B4C; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #6D9DD7; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNING PORTAL</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Learning Portal. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to the Learning Portal"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome aboard! Your account has been created successfully.</p>
		<p>You can now browse the course catalog and enroll in any published course.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. OTP for email verification
func SendOTPEmail(email, name, otp string) {
	subject := "Your verification code"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your verification code is:</p>
		<div class="info-box"><strong style="font-size: 20px; letter-spacing: 4px;">%s</strong></div>
		<p>The code is valid for 10 minutes.</p>
	`, name, otp)

	go SendEmail([]string{email}, subject, getEmailTemplate("Email Verification", body))
}

// 3. Enrollment confirmation
func SendEnrollmentEmail(email, name, courseTitle string) {
	subject := "Enrollment Confirmed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Head to the course page to start with the first lecture.
		</div>
	`, name, courseTitle)

	go SendEmail([]string{email}, subject, getEmailTemplate("Enrollment Successful", body))
}

// 4. Grade published
func SendGradeEmail(email, name, assignmentTitle string, points, maxPoints int) {
	subject := "Your assignment has been graded"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your submission for <strong>%s</strong> has been graded.</p>
		<div class="info-box">Score: <strong>%d / %d</strong></div>
		<p>Log in to see the full feedback.</p>
	`, name, assignmentTitle, points, maxPoints)

	go SendEmail([]string{email}, subject, getEmailTemplate("Grade Published", body))
}

// 5. Assignment due reminder
func SendDueReminderEmail(email, name, assignmentTitle, courseTitle string, hoursLeft int) {
	subject := fmt.Sprintf("Due soon: %s", assignmentTitle)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p><strong>%s</strong> in <strong>%s</strong> is due in about %d hours and you have not submitted yet.</p>
		<p>Make sure to submit before the deadline — late submissions are not accepted.</p>
	`, name, assignmentTitle, courseTitle, hoursLeft)

	go SendEmail([]string{email}, subject, getEmailTemplate("Assignment Reminder", body))
}
