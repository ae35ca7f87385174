package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/signintech/gopdf"
	"github.com/sirupsen/logrus"

	"symptom-checker/internal/triage"
)

type TelegramClient interface {
	SendMessage(chatID int64, text string) error
	SendDocument(chatID int64, fileData []byte, fileName string) error
}

// Service sends urgent-case summaries to an on-call clinician chat. It is
// best-effort notification on top of the triage flow, never part of the
// patient-facing response.
type Service struct {
	tgClient     TelegramClient
	onCallChatID int64
	log          *logrus.Logger
}

func NewService(tg TelegramClient, onCallChatID int64, log *logrus.Logger) *Service {
	return &Service{
		tgClient:     tg,
		onCallChatID: onCallChatID,
		log:          log,
	}
}

// SendUrgentAlert generates a PDF case summary and delivers it with a short
// text alert to the on-call chat.
func (s *Service) SendUrgentAlert(ctx context.Context, res triage.AnalysisResult) error {
	pdfData, err := buildCasePDF(res)
	if err != nil {
		return fmt.Errorf("failed to build case PDF: %w", err)
	}

	alert := fmt.Sprintf("URGENT triage case (session %s): %d condition(s), source %s. Case summary attached.",
		res.Input.SessionID, len(res.Conditions), res.Source)
	if err := s.tgClient.SendMessage(s.onCallChatID, alert); err != nil {
		return err
	}

	fileName := fmt.Sprintf("urgent_case_%s.pdf", res.Timestamp.Format("20060102_150405"))
	if err := s.tgClient.SendDocument(s.onCallChatID, pdfData, fileName); err != nil {
		return err
	}

	s.log.WithField("session_id", res.Input.SessionID).Info("urgent case alert sent")
	return nil
}

func buildCasePDF(res triage.AnalysisResult) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	// Try common DejaVu locations so the image works on Alpine and Debian.
	fontPaths := []string{
		"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	}

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load font for PDF, ensure ttf-dejavu is installed: %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Urgent Triage Case Summary")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Date: %s", res.Timestamp.Format("02.01.2006 15:04")))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Session: %s", res.Input.SessionID))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Urgency: %s | Source: %s", res.Urgency, res.Source))
	pdf.Br(25)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Reported symptoms:")
	pdf.Br(15)
	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	writeWrapped(&pdf, res.Input.Symptoms)
	pdf.Br(10)
	pdf.Cell(nil, fmt.Sprintf("Age: %s | Gender: %s | Duration: %s",
		orDash(string(res.Input.Age)), orDash(res.Input.Gender), orDash(res.Input.Duration)))
	pdf.Br(20)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Candidate conditions:")
	pdf.Br(15)
	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	for _, c := range res.Conditions {
		writeWrapped(&pdf, fmt.Sprintf("- %s [%s, %s]: %s", c.Name, c.Probability, c.Severity, c.Description))
		pdf.Br(5)
	}
	pdf.Br(10)

	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Recommendations given:")
	pdf.Br(15)
	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	for _, rec := range res.Recommendations {
		writeWrapped(&pdf, "- "+rec)
		pdf.Br(5)
	}

	pdf.SetY(270)
	if err := pdf.SetFont("DejaVu", "", 9); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Preliminary, non-diagnostic assessment generated %s.", time.Now().UTC().Format(time.RFC3339)))

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeWrapped(pdf *gopdf.GoPdf, text string) {
	lines, _ := pdf.SplitText(text, 500)
	for _, l := range lines {
		pdf.Cell(nil, l)
		pdf.Br(12)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
