// Package xmlreport serializa el reporte ESG como XML con etree.
package xmlreport

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/ecolend-api/internal/application/dto"
)

// Namespace del documento.
const Namespace = "urn:ecolend:esg-report:1"

// ESGReportRenderer implementa ports.ESGReportRenderer.
//
//	<esgReport xmlns="urn:ecolend:esg-report:1" from="..." to="..." granularity="month">
//	  <period key="2025-01">
//	    <metric id="2025-01-REUSE" type="REUSE" unit="COUNT">3</metric>
//	  </period>
//	</esgReport>
type ESGReportRenderer struct {
	indent int
}

// NewESGReportRenderer construye el renderer con sangría de 2 espacios.
func NewESGReportRenderer() *ESGReportRenderer {
	return &ESGReportRenderer{indent: 2}
}

// Render agrupa las métricas por período respetando el orden de entrada.
func (r *ESGReportRenderer) Render(report dto.ESGReportDTO) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("esgReport")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("from", report.From.UTC().Format(time.RFC3339))
	root.CreateAttr("to", report.To.UTC().Format(time.RFC3339))
	root.CreateAttr("granularity", report.Granularity)

	var current *etree.Element
	for _, m := range report.Metrics {
		if current == nil || current.SelectAttrValue("key", "") != m.Period {
			current = root.CreateElement("period")
			current.CreateAttr("key", m.Period)
		}
		el := current.CreateElement("metric")
		el.CreateAttr("id", m.ID)
		el.CreateAttr("type", m.Type)
		el.CreateAttr("unit", m.Unit)
		el.SetText(strconv.FormatFloat(m.Value, 'f', -1, 64))
	}

	doc.Indent(r.indent)
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("xmlreport: serializar: %w", err)
	}
	return out.Bytes(), nil
}
