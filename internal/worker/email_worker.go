package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"counterpos/internal/infra"
	"counterpos/internal/repository"
)

// EmailWorker renders a receipt PDF for a completed sale and mails it
// to the customer. Failures are logged and dropped: a receipt email is
// a courtesy, never part of the sale.
type EmailWorker struct {
	saleRepo    repository.SaleRepository
	mailer      *infra.Mailer
	storeName   string
	storagePath string
}

func NewEmailWorker(saleRepo repository.SaleRepository, mailer *infra.Mailer, storeName, storagePath string) *EmailWorker {
	return &EmailWorker{saleRepo: saleRepo, mailer: mailer, storeName: storeName, storagePath: storagePath}
}

func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("email worker: malformed sale id")
		return
	}

	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("email worker: sale not found")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.storeName, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("email worker: failed to render receipt")
		return
	}
	defer os.Remove(pdfPath)

	subject := fmt.Sprintf("Your receipt #%d from %s", sale.ReceiptNumber, w.storeName)
	body := fmt.Sprintf("Thank you for your purchase. Your receipt #%d is attached.\nTotal: %s",
		sale.ReceiptNumber, sale.Total.StringFixed(2))

	if err := w.mailer.SendReceipt(payload.Email, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("email worker: send failed")
		return
	}
	log.Info().Str("sale_id", payload.SaleID).Msg("receipt email sent")
}
