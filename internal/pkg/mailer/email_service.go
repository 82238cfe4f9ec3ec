package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendCompletionEmail(toEmail, sessionName string, counts map[string]int) error
	SendFailureEmail(toEmail, sessionName, reason string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	clientURL   string
}

func NewEmailService(host string, port int, username, password, senderName, clientURL string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
		clientURL:   clientURL,
	}
}

func (s *emailService) SendCompletionEmail(toEmail, sessionName string, counts map[string]int) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your study materials for %q are ready", sessionName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your study session is ready!</h2>
			<p>We finished processing <strong>%s</strong>. Here is what we prepared:</p>
			<ul>
				<li>%d practice questions</li>
				<li>%d mnemonics</li>
				<li>%d cheat sheets</li>
			</ul>
			<a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open your materials</a>
			<p>Happy studying!</p>
		</div>
	`, sessionName, counts["questions"], counts["mnemonics"], counts["cheat_sheets"], s.clientURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send completion email to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Completion email sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendFailureEmail(toEmail, sessionName, reason string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("We could not process %q", sessionName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Processing did not finish</h2>
			<p>We ran into a problem while processing <strong>%s</strong>:</p>
			<p>%s</p>
			<p>You can try uploading the document again from your dashboard.</p>
		</div>
	`, sessionName, reason)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send failure email to %s: %v\n", toEmail, err)
		return err
	}

	return nil
}
