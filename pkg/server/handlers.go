package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ccollicutt/clsview/pkg/analyzer"
	"github.com/ccollicutt/clsview/pkg/output"
	"github.com/ccollicutt/clsview/pkg/parser"
)

const (
	uploadSource = "upload"
	pastedSource = "pasted log"

	// multipartMemory is the part of a multipart form kept in memory; the
	// rest spills to temporary files.
	multipartMemory = 32 << 20
)

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)

	content, err := parser.Decode(r.Body)
	if err != nil {
		readError(w, err)
		return
	}

	doc, err := parser.Parse(content)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)

	opts, err := s.analyzerOptions(r.URL.Query().Get("severity"), r.URL.Query().Get("search"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	content, err := parser.Decode(r.Body)
	if err != nil {
		readError(w, err)
		return
	}

	source := r.URL.Query().Get("name")
	if source == "" {
		source = uploadSource
	}

	report, err := s.analyze(r, content, source, opts)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)

	content, source, err := formContent(r)
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		renderError(w, status, err.Error())
		return
	}

	opts, err := s.analyzerOptions(r.FormValue("severity"), r.FormValue("search"))
	if err != nil {
		renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.analyze(r, content, source, opts)
	if err != nil {
		renderError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	formatter := output.NewHTMLFormatter(output.FormatOptions{Verbose: r.FormValue("verbose") != ""})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := formatter.Format(r.Context(), report, w); err != nil {
		s.log.Error().Err(err).Msg("Rendering report failed")
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		s.log.Error().Err(err).Msg("Rendering index failed")
	}
}

// analyzerOptions combines the configured analyzer settings with per-request
// overrides.
func (s *Server) analyzerOptions(severity, search string) ([]analyzer.AnalyzerOption, error) {
	minSeverity := s.cfg.Severity()
	if severity != "" {
		v, err := analyzer.ParseSeverity(severity)
		if err != nil {
			return nil, err
		}
		minSeverity = v
	}

	return []analyzer.AnalyzerOption{
		analyzer.WithContentType(s.cfg.ContentType),
		analyzer.WithMinSeverity(minSeverity),
		analyzer.WithSearch(search),
	}, nil
}

func (s *Server) analyze(r *http.Request, content, source string, opts []analyzer.AnalyzerOption) (*output.Report, error) {
	doc, err := parser.Parse(content)
	if err != nil {
		s.log.Debug().Err(err).Str("source", source).Msg("Rejected log dump")
		return nil, err
	}

	result, err := analyzer.NewAnalyzer(opts...).Analyze(r.Context(), doc)
	if err != nil {
		return nil, fmt.Errorf("analyzing: %w", err)
	}

	return output.NewReport(result, source), nil
}

// formContent returns the dump from the multipart "file" field, falling back
// to the "content" form field.
func formContent(r *http.Request) (content, source string, err error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return "", "", fmt.Errorf("invalid multipart form: %w", err)
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		switch {
		case err == nil:
			defer file.Close()
			uploaded, err := parser.Decode(file)
			if err != nil {
				return "", "", err
			}
			if uploaded != "" {
				return uploaded, sanitizeFilename(header.Filename), nil
			}
		case !errors.Is(err, http.ErrMissingFile):
			return "", "", fmt.Errorf("reading file: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return "", "", fmt.Errorf("invalid form: %w", err)
	}

	content = r.PostFormValue("content")
	if content == "" {
		return "", "", errors.New("no log dump provided")
	}
	return content, pastedSource, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return uploadSource
	}
	return name
}

func readError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", tooLarge.Limit), http.StatusRequestEntityTooLarge)
		return
	}
	jsonError(w, err.Error(), http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func renderError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = errorTemplate.Execute(w, msg)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>clsview</title>
</head>
<body>
<h1>Console log viewer</h1>
<form method="post" action="/view" enctype="multipart/form-data">
<p><input type="file" name="file"></p>
<p><textarea name="content" rows="12" cols="100" placeholder="or paste a log dump here"></textarea></p>
<p>
<label>Severity
<select name="severity">
<option value="info">info</option>
<option value="warning">warning</option>
<option value="error">error</option>
</select>
</label>
<label>Search <input type="text" name="search"></label>
<label><input type="checkbox" name="verbose" value="1"> Full messages</label>
</p>
<p><button type="submit">View</button></p>
</form>
</body>
</html>
`))

var errorTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>clsview: error</title>
</head>
<body>
<h1>Could not read log dump</h1>
<pre>{{.}}</pre>
<p><a href="/">Back</a></p>
</body>
</html>
`))
