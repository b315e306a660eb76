package services

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/skillforge/skillforge-backend/internal/domain"
	"github.com/skillforge/skillforge-backend/internal/platform/envutil"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
)

// CertificateService renders completion certificates to PNG files under the
// local media root. Rendering failures are reported to the caller, which
// treats the artifact as best-effort; the certificate row itself does not
// depend on it.
type CertificateService interface {
	Render(ctx context.Context, user *domain.User, course *domain.Course, issuedAt time.Time) (string, error)
}

type certificateService struct {
	log       *logger.Logger
	mediaRoot string

	titleFace font.Face
	nameFace  font.Face
	bodyFace  font.Face
}

func NewCertificateService(log *logger.Logger) (CertificateService, error) {
	serviceLog := log.With("service", "CertificateService")

	mediaRoot := envutil.Str("MEDIA_ROOT", "media")
	if err := os.MkdirAll(filepath.Join(mediaRoot, "certificates"), 0o755); err != nil {
		return nil, fmt.Errorf("create certificate media dir: %w", err)
	}

	fontPath := strings.TrimSpace(os.Getenv("CERTIFICATE_FONT"))
	if fontPath == "" {
		return nil, fmt.Errorf("env var CERTIFICATE_FONT is empty")
	}
	serviceLog.Info("loading certificate font", "font", fontPath)

	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse TTF: %w", err)
	}
	face := func(size float64) font.Face {
		return truetype.NewFace(parsed, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	}

	return &certificateService{
		log:       serviceLog,
		mediaRoot: mediaRoot,
		titleFace: face(64),
		nameFace:  face(48),
		bodyFace:  face(28),
	}, nil
}

func (cs *certificateService) Render(ctx context.Context, user *domain.User, course *domain.Course, issuedAt time.Time) (string, error) {
	const (
		width  = 1400
		height = 1000
	)

	dc := gg.NewContext(width, height)

	dc.SetColor(color.NRGBA{R: 0xFA, G: 0xF8, B: 0xF2, A: 0xFF})
	dc.DrawRectangle(0, 0, width, height)
	dc.Fill()

	// Double border frame.
	dc.SetColor(color.NRGBA{R: 0x1F, G: 0x3A, B: 0x5F, A: 0xFF})
	dc.SetLineWidth(6)
	dc.DrawRectangle(40, 40, width-80, height-80)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawRectangle(56, 56, width-112, height-112)
	dc.Stroke()

	cx := float64(width) / 2

	dc.SetFontFace(cs.titleFace)
	dc.SetColor(color.NRGBA{R: 0x1F, G: 0x3A, B: 0x5F, A: 0xFF})
	dc.DrawStringAnchored("Certificate of Completion", cx, 220, 0.5, 0.5)

	dc.SetFontFace(cs.bodyFace)
	dc.SetColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xFF})
	dc.DrawStringAnchored("This certifies that", cx, 360, 0.5, 0.5)

	dc.SetFontFace(cs.nameFace)
	dc.SetColor(color.NRGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xFF})
	dc.DrawStringAnchored(strings.TrimSpace(user.FirstName+" "+user.LastName), cx, 450, 0.5, 0.5)

	dc.SetFontFace(cs.bodyFace)
	dc.SetColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xFF})
	dc.DrawStringAnchored("has successfully completed the course", cx, 550, 0.5, 0.5)

	dc.SetFontFace(cs.nameFace)
	dc.SetColor(color.NRGBA{R: 0x1F, G: 0x3A, B: 0x5F, A: 0xFF})
	dc.DrawStringAnchored(course.Name, cx, 640, 0.5, 0.5)

	dc.SetFontFace(cs.bodyFace)
	dc.SetColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xFF})
	dc.DrawStringAnchored(issuedAt.Format("January 2, 2006"), cx, 780, 0.5, 0.5)

	// Versioned key so a reissue never serves a stale cached image.
	rel := filepath.Join("certificates", fmt.Sprintf("%s_%s_%d.png", user.ID, course.ID, issuedAt.UnixNano()))
	full := filepath.Join(cs.mediaRoot, rel)
	if err := dc.SavePNG(full); err != nil {
		return "", fmt.Errorf("save certificate png: %w", err)
	}

	cs.log.Info("certificate rendered", "user_id", user.ID, "course_id", course.ID, "path", rel)
	return rel, nil
}
