package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/ecolend-api/internal/domain/entity"
)

// catalogueNS espacio de nombres de los UUID v5: mismo nombre+categoría = mismo id.
var catalogueNS = uuid.MustParse("6f0f3c1e-8d5e-4b8e-9a55-3f1d2e7c9b10")

// parseCatalogue lee el CSV y valida cada fila como Equipment. La cabecera es opcional.
func parseCatalogue(raw []byte, latin1 bool, now time.Time) ([]*entity.Equipment, error) {
	var r io.Reader = bytes.NewReader(raw)
	if latin1 || !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		items []*entity.Equipment
		seen  = map[entity.EquipmentID]int{}
		line  int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "name") {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 3 columnas", line)
		}
		total, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil {
			return nil, fmt.Errorf("línea %d: total_quantity inválido %q", line, rec[2])
		}
		name, category := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		props := entity.Equipment{
			ID:            entity.EquipmentID(uuid.NewSHA1(catalogueNS, []byte(strings.ToLower(name+"|"+category))).String()),
			Name:          name,
			Category:      category,
			Status:        entity.EquipmentAvailable,
			TotalQuantity: total,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if len(rec) > 3 {
			if cert := strings.TrimSpace(rec[3]); cert != "" {
				props.Certification = &cert
			}
		}
		e, err := entity.NewEquipment(props)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if prev, ok := seen[e.ID]; ok {
			return nil, fmt.Errorf("línea %d: equipo duplicado (ver línea %d)", line, prev)
		}
		seen[e.ID] = line
		items = append(items, e)
	}
	return items, nil
}

func upSQL(items []*entity.Equipment) string {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de equipos\n")
	b.WriteString("-- Generado por cmd/seed_equipment\n\n")
	if len(items) == 0 {
		return b.String()
	}
	b.WriteString("INSERT INTO equipment (id, name, category, certification, status, total_quantity, quantity_in_use, created_at, updated_at) VALUES\n")
	for i, e := range items {
		cert := "NULL"
		if e.Certification != nil {
			cert = quote(*e.Certification)
		}
		ts := quote(e.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(&b, "  (%s, %s, %s, %s, %s, %d, 0, %s, %s)",
			quote(string(e.ID)), quote(e.Name), quote(e.Category), cert, quote(string(e.Status)), e.TotalQuantity, ts, ts)
		if i < len(items)-1 {
			b.WriteString(",\n")
		} else {
			b.WriteString("\n")
		}
	}
	// no pisa quantity_in_use: puede haber préstamos abiertos
	b.WriteString("ON CONFLICT (id) DO UPDATE SET certification = EXCLUDED.certification,\n")
	b.WriteString("  total_quantity = GREATEST(EXCLUDED.total_quantity, equipment.quantity_in_use),\n")
	b.WriteString("  updated_at = EXCLUDED.updated_at;\n")
	return b.String()
}

func downSQL(items []*entity.Equipment) string {
	var b strings.Builder
	b.WriteString("-- Revierte 0002_seed_equipment.up.sql (solo equipos sin préstamos)\n")
	if len(items) == 0 {
		return b.String()
	}
	ids := make([]string, len(items))
	for i, e := range items {
		ids[i] = quote(string(e.ID))
	}
	fmt.Fprintf(&b, "DELETE FROM equipment e WHERE e.id IN (%s)\n", strings.Join(ids, ", "))
	b.WriteString("  AND NOT EXISTS (SELECT 1 FROM loans l WHERE l.equipment_id = e.id);\n")
	return b.String()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
