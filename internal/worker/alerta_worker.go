package worker

// alerta_worker.go
// Processes low-stock alert jobs from QueueAlerta: renders the current state
// of the stock board to PDF and mails it to the configured alert address.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JohnDGC/oh-my-glasses/internal/infra"
	"github.com/JohnDGC/oh-my-glasses/internal/repository"

	"github.com/rs/zerolog/log"
)

type AlertaWorker struct {
	mailer     *infra.Mailer
	stockRepo  repository.StockRepository
	pdf        *infra.PDFGenerator
	alertEmail string
}

func NewAlertaWorker(mailer *infra.Mailer, stockRepo repository.StockRepository, pdf *infra.PDFGenerator, alertEmail string) *AlertaWorker {
	return &AlertaWorker{mailer: mailer, stockRepo: stockRepo, pdf: pdf, alertEmail: alertEmail}
}

func (w *AlertaWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload AlertaJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return nil // malformed jobs don't retry
	}
	if w.alertEmail == "" {
		log.Warn().Msg("alerta_worker: ALERT_EMAIL no configurado — alerta descartada")
		return nil
	}

	subject := fmt.Sprintf("Stock bajo: %s / %s / %s", payload.Seccion, payload.TipoMontura, payload.TipoCompra)
	body := fmt.Sprintf(
		"La combinación %s / %s / %s quedó en %d unidades (mínimo configurado: %d).\n\nSe adjunta el estado completo del inventario.",
		payload.Seccion, payload.TipoMontura, payload.TipoCompra,
		payload.StockActual, payload.StockMinimo,
	)

	pdfPath := ""
	if w.pdf != nil {
		rows, err := w.stockRepo.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("alerta_worker: leyendo stock: %w", err)
		}
		pdfPath, err = w.pdf.GenerarInformeStock(rows)
		if err != nil {
			// La alerta vale más que el adjunto.
			log.Warn().Err(err).Msg("alerta_worker: informe PDF no generado, enviando sin adjunto")
			pdfPath = ""
		}
	}

	if err := w.mailer.SendAlerta(w.alertEmail, subject, body, pdfPath); err != nil {
		return fmt.Errorf("alerta_worker: enviando correo: %w", err)
	}
	log.Info().Str("to", w.alertEmail).Str("seccion", payload.Seccion).Msg("alerta_worker: alerta enviada")
	return nil
}
