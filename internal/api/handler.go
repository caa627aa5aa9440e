// Package api exposes the pipeline over HTTP for one-off conversions.
package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-ledger/internal/engine"
	"github.com/insightdelivered/statement-ledger/internal/writer"
)

const version = "1.0.0"

type Server struct {
	engine *engine.Engine
	log    zerolog.Logger
}

func New(eng *engine.Engine, log zerolog.Logger) *Server {
	return &Server{engine: eng, log: log}
}

// App builds the fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             32 << 20,
		DisableStartupMessage: true,
	})
	app.Get("/api/health", s.handleHealth)
	app.Post("/api/convert", s.handleConvert)
	return app
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	s.log.Info().Str("addr", addr).Msg("http server listening")
	return s.App().Listen(addr)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": version,
	})
}

// handleConvert accepts a PDF upload under the "file" form field, runs the
// pipeline and returns the parse report. ?format=csv returns the transaction
// table instead of the JSON report.
func (s *Server) handleConvert(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "no file uploaded, use form field 'file'")
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return badRequest(c, "only PDF files are supported")
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create temp file"})
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(header, tmpPath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save uploaded file"})
	}

	rep := s.engine.ProcessFile(c.Context(), tmpPath)
	// The temp file name is meaningless; identify the report by the upload.
	base := filepath.Base(header.Filename)
	rep.DocumentID = strings.TrimSuffix(base, filepath.Ext(base))

	s.log.Info().
		Str("document", rep.DocumentID).
		Str("status", string(rep.Status)).
		Msg("convert request")

	if c.Query("format") == "csv" {
		var sb strings.Builder
		cw := &writer.CSVWriter{IncludeHeader: c.Query("header") != "false"}
		if err := cw.Write(&sb, rep); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": fmt.Sprintf("csv rendering failed: %v", err)})
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		return c.SendString(sb.String())
	}
	return c.JSON(rep)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
