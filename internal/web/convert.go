package web

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/stencilgen/stencilgen/convert"
	"github.com/stencilgen/stencilgen/geom"
	"github.com/stencilgen/stencilgen/gerber"
	"github.com/stencilgen/stencilgen/scad"
)

// maxUploadBytes bounds the multipart form size. Fabrication drawings
// are text files of at most a few megabytes.
const maxUploadBytes = 32 << 20

// warningHeader carries non-fatal conversion warnings on a successful
// STL download, one header value per warning. The download body is the
// mesh itself, so data-quality feedback travels in the response headers.
const warningHeader = "X-Stencil-Warning"

// formData renders the upload page; Error and Warnings carry feedback
// from a failed or noisy conversion attempt.
type formData struct {
	Config   convert.Config
	Error    string
	Warnings []string
}

func (s *Server) handleForm(w http.ResponseWriter, req *http.Request) {
	s.render(w, http.StatusOK, formData{Config: convert.DefaultConfig()})
}

// handleConvert runs the full pipeline on the uploaded drawings and
// streams the rendered STL back as an attachment, with non-fatal
// warnings in X-Stencil-Warning headers. Problems in the uploaded data
// come back as form errors; only infrastructure failures turn into a
// 500, and those re-render the form with any warnings gathered so far.
func (s *Server) handleConvert(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		s.render(w, http.StatusBadRequest, formData{Config: convert.DefaultConfig(), Error: "invalid upload: " + err.Error()})
		return
	}
	cfg, err := configFromForm(req)
	if err != nil {
		s.render(w, http.StatusBadRequest, formData{Config: convert.DefaultConfig(), Error: err.Error()})
		return
	}

	paste, err := parseUpload(req, "paste")
	if err != nil {
		s.render(w, http.StatusBadRequest, formData{Config: cfg, Error: err.Error()})
		return
	}
	if paste == nil {
		s.render(w, http.StatusBadRequest, formData{Config: cfg, Error: "a solder paste drawing is required"})
		return
	}
	outline, err := parseUpload(req, "outline")
	if err != nil {
		s.render(w, http.StatusBadRequest, formData{Config: cfg, Error: err.Error()})
		return
	}

	res, err := convert.Process(outline, paste, cfg)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if !userError(err) {
			status = http.StatusInternalServerError
		}
		s.render(w, status, formData{Config: cfg, Error: err.Error()})
		return
	}
	warnings := make([]string, 0, len(res.Warnings))
	for _, warn := range res.Warnings {
		s.logger.Warn(warn.String())
		warnings = append(warnings, warn.String())
	}

	stlPath := filepath.Join(os.TempDir(), uuid.NewString()+".stl")
	defer os.Remove(stlPath)
	if err := s.engine.Render(req.Context(), res.Solid, stlPath); err != nil {
		s.logger.Error("render failed", "err", err)
		s.render(w, http.StatusInternalServerError, formData{Config: cfg, Error: "mesh rendering failed; check the server logs", Warnings: warnings})
		return
	}
	stats, err := scad.ReadMeshStats(stlPath)
	if err != nil {
		s.logger.Error("rendered mesh unreadable", "err", err)
		s.render(w, http.StatusInternalServerError, formData{Config: cfg, Error: "mesh rendering produced an unreadable file", Warnings: warnings})
		return
	}
	s.logger.Info("stencil rendered",
		"holes", res.Stats.HoleCount,
		"dropped", res.Stats.DroppedHoles,
		"triangles", stats.Triangles,
	)

	f, err := os.Open(stlPath)
	if err != nil {
		http.Error(w, "mesh vanished", http.StatusInternalServerError)
		return
	}
	defer f.Close()
	for _, warn := range warnings {
		w.Header().Add(warningHeader, warn)
	}
	w.Header().Set("Content-Type", "model/stl")
	w.Header().Set("Content-Disposition", `attachment; filename="stencil.stl"`)
	io.Copy(w, f) //nolint:errcheck // client may hang up mid-download
}

// userError reports whether err stems from the uploaded drawings
// rather than the service itself.
func userError(err error) bool {
	var parseErr *gerber.ParseError
	var unsupported *gerber.UnsupportedPrimitiveError
	var open *geom.OpenOutlineError
	return errors.As(err, &parseErr) ||
		errors.As(err, &unsupported) ||
		errors.As(err, &open) ||
		errors.Is(err, convert.ErrEmptyResult)
}

func parseUpload(req *http.Request, field string) (*gerber.File, error) {
	file, header, err := req.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	defer file.Close()
	return parseDrawing(file, header)
}

func parseDrawing(file multipart.File, header *multipart.FileHeader) (*gerber.File, error) {
	parsed, err := gerber.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", header.Filename, err)
	}
	return parsed, nil
}

// configFromForm maps the numeric and checkbox fields onto a Config.
// Empty fields keep their defaults; malformed numbers are an error.
func configFromForm(req *http.Request) (convert.Config, error) {
	cfg := convert.DefaultConfig()
	for name, dst := range map[string]*float64{
		"thickness":       &cfg.Thickness,
		"ledge_thickness": &cfg.LedgeThickness,
		"gap":             &cfg.Gap,
		"hole_increase":   &cfg.HoleSizeIncrease,
		"frame_width":     &cfg.FrameWidth,
		"frame_height":    &cfg.FrameHeight,
		"frame_thickness": &cfg.FrameThickness,
		"width":           &cfg.StencilWidth,
		"height":          &cfg.StencilHeight,
		"margin":          &cfg.StencilMargin,
	} {
		raw := req.FormValue(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return cfg, fmt.Errorf("field %s: not a number: %q", name, raw)
		}
		*dst = v
	}
	cfg.LedgeEnabled = req.FormValue("ledge") != ""
	cfg.LedgeFullPerimeter = req.FormValue("full_perimeter") != ""
	cfg.FlipStencil = req.FormValue("flip") != ""
	cfg.FrameEnabled = req.FormValue("frame") != ""
	return cfg, cfg.Validate()
}

func (s *Server) render(w http.ResponseWriter, status int, data formData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.Execute(w, data); err != nil {
		s.logger.Error("template render failed", "err", err)
	}
}
