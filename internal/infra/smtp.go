package infra

import (
	"fmt"
	"net/smtp"

	"github.com/JohnDGC/oh-my-glasses/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer envía los correos de alerta de stock, con el reporte PDF adjunto
// cuando el worker logró generarlo.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// SendAlerta envía una alerta de stock. pdfPath vacío manda solo el texto.
func (m *Mailer) SendAlerta(to, asunto, cuerpo, pdfPath string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = asunto
	e.Text = []byte(cuerpo)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: adjuntar PDF: %w", err)
		}
	}

	return e.Send(m.addr, smtp.PlainAuth("", m.user, m.password, m.host))
}
