package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/jgoulah/energycalc/internal/report"
	"github.com/jgoulah/energycalc/pkg/models"
)

//go:embed templates/*.html
var templateFS embed.FS

type pages struct {
	calculator *template.Template
}

func loadPages() (*pages, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &pages{calculator: tmpl}, nil
}

type option struct {
	Value string
	Label string
}

type pageData struct {
	Form       formState
	Error      string
	Policy     string
	Housings   []option
	Dwellings  []option
	Appliances []option
	Result     *report.Report
	Charts     []byte
}

// ChartsJS exposes the chart payload to the page script. json.Marshal
// escapes <, > and & so the payload cannot close the script element.
func (d pageData) ChartsJS() template.JS {
	return template.JS(d.Charts)
}

func (d pageData) withError(msg string) pageData {
	d.Error = msg
	d.Result = nil
	d.Charts = nil
	return d
}

func (h *Handlers) pageData(fs formState) pageData {
	d := pageData{
		Form:   fs,
		Policy: h.estimator.Policy().Name,
		Dwellings: []option{
			{Value: models.DwellingFlat.String(), Label: models.DwellingFlat.String()},
			{Value: models.DwellingTenement.String(), Label: models.DwellingTenement.String()},
		},
	}
	for _, hc := range models.HousingConfigurations() {
		d.Housings = append(d.Housings, option{Value: hc.String(), Label: hc.String()})
	}
	// only offer appliances the active policy can price
	for _, a := range h.estimator.Policy().Supported() {
		d.Appliances = append(d.Appliances, option{Value: a.Key(), Label: a.Label()})
	}
	return d
}

func (h *Handlers) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.pages.calculator.ExecuteTemplate(&buf, "calculator.html", data); err != nil {
		h.logger.Error("rendering page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
