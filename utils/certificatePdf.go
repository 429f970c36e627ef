package utils

import (
	"bytes"
	"credlyse/config"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// CertificatesDir is where rendered PDFs land; served by the static handler.
const CertificatesDir = "static/certificates"

// RenderCertificatePDF renders a landscape certificate with the recipient
// name, course title, issue date and a QR code pointing at the public
// verification endpoint. Returns the URL path of the stored PDF.
func RenderCertificatePDF(certificateID, userName, courseTitle, issuedDate string) (string, error) {
	if err := os.MkdirAll(CertificatesDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create certificates dir: %v", err)
	}

	filename := certificateID + ".pdf"
	outPath := filepath.Join(CertificatesDir, filename)

	verifyURL := fmt.Sprintf("%s/certificate/%s/verify", config.AppConfig.PublicBaseURL, certificateID)
	qrPNG, err := qrcode.Encode(verifyURL, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %v", err)
	}

	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	// Border
	pdf.SetDrawColor(51, 51, 204)
	pdf.SetLineWidth(1.5)
	pdf.Rect(12, 12, pageW-24, pageH-24, "D")

	pdf.SetFont("Helvetica", "B", 40)
	pdf.SetY(45)
	pdf.CellFormat(0, 16, "Certificate of Completion", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 20)
	pdf.SetY(75)
	pdf.CellFormat(0, 10, "This is to certify that", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 30)
	pdf.SetY(92)
	pdf.CellFormat(0, 14, userName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 20)
	pdf.SetY(112)
	pdf.CellFormat(0, 10, "has successfully completed the course", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 25)
	pdf.SetY(128)
	pdf.CellFormat(0, 12, courseTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(25, pageH-25, "Date: "+issuedDate)
	pdf.Text(pageW-95, pageH-25, "Certificate ID: "+certificateID[:8])

	// QR code linking to the public verification page
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr-"+certificateID, opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr-"+certificateID, pageW-48, pageH-52, 24, 24, false, opts, 0, "")

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return "", fmt.Errorf("failed to write certificate PDF: %v", err)
	}

	return "/" + CertificatesDir + "/" + filename, nil
}
