package utils

import (
	"fmt"
	"log"
	"net/smtp"

	"sab/config"
)

const (
	smtpHost = "smtp.gmail.com"
	smtpPort = "587"
)

func sendHTMLMail(to, subject, body string) error {
	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		log.Println("Email credentials not configured, skipping mail to", to)
		return nil
	}

	header := fmt.Sprintf("Subject: %s\nMIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n", subject)
	message := []byte(header + "\n" + body)

	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{to}, message); err != nil {
		log.Printf("Error sending email to %s: %v", to, err)
		return err
	}

	log.Println("Email sent successfully to", to)
	return nil
}

// SendWelcomeEmail greets a newly registered student
func SendWelcomeEmail(email, firstName string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px; box-shadow: 0 2px 8px rgba(0, 0, 0, 0.1);">
					<h2 style="color: #333333; text-align: center;">Welcome to StudyAbroad Prep!</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">Your account is ready. Explore IELTS practice tests, video courses and AI-assisted application documents to kick off your study-abroad journey.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">StudyAbroad Prep Team</p>
				</div>
			</body>
		</html>
	`, firstName)

	return sendHTMLMail(email, "Welcome to StudyAbroad Prep", body)
}

// SendPurchaseEmail confirms a completed course purchase
func SendPurchaseEmail(email, firstName, courseTitle string) error {
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px; box-shadow: 0 2px 8px rgba(0, 0, 0, 0.1);">
					<h2 style="color: #333333; text-align: center;">Purchase Confirmed!</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">Your payment went through and you now have full access to:</p>
					<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">%s</h3>
					<p style="font-size: 14px; color: #666666;">All course videos are unlocked. Track your progress from your dashboard.</p>
					<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">StudyAbroad Prep Team</p>
				</div>
			</body>
		</html>
	`, firstName, courseTitle)

	return sendHTMLMail(email, "Course Purchase Confirmation", body)
}
