package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/ecolend-api/internal/domain"
)

var seedNow = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

func TestParseCatalogue_UTF8ConCabecera(t *testing.T) {
	raw := []byte("name,category,total_quantity,certification\n" +
		"Taladro percutor,Herramientas,5,ISO 14001\n" +
		"Andamio modular, Estructuras ,12,\n")

	items, err := parseCatalogue(raw, false, seedNow)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Taladro percutor", items[0].Name)
	require.NotNil(t, items[0].Certification)
	assert.Equal(t, "ISO 14001", *items[0].Certification)
	assert.Equal(t, "Estructuras", items[1].Category)
	assert.Nil(t, items[1].Certification)
	assert.Equal(t, 12, items[1].QuantityAvailable())

	again, err := parseCatalogue(raw, false, seedNow)
	require.NoError(t, err)
	assert.Equal(t, items[0].ID, again[0].ID, "ids estables entre ejecuciones")
}

func TestParseCatalogue_Latin1(t *testing.T) {
	utf := "Compresor neumático,Maquinaria,3\n"
	raw, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(utf))
	require.NoError(t, err)

	items, err := parseCatalogue(raw, false, seedNow)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Compresor neumático", items[0].Name)
}

func TestParseCatalogue_Errores(t *testing.T) {
	_, err := parseCatalogue([]byte("Taladro,Herramientas,cinco\n"), false, seedNow)
	assert.EqualError(t, err, `línea 1: total_quantity inválido "cinco"`)

	_, err = parseCatalogue([]byte(" ,Herramientas,1\n"), false, seedNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = parseCatalogue([]byte("Taladro,Herramientas,1\ntaladro,herramientas,2\n"), false, seedNow)
	assert.EqualError(t, err, "línea 2: equipo duplicado (ver línea 1)")
}

func TestUpSQL(t *testing.T) {
	items, err := parseCatalogue([]byte("Llave inglesa,Herramientas,4,O'Brien Cert\n"), false, seedNow)
	require.NoError(t, err)

	sql := upSQL(items)
	assert.Contains(t, sql, "'Llave inglesa', 'Herramientas', 'O''Brien Cert', 'AVAILABLE', 4, 0, '2025-02-01T00:00:00Z'")
	assert.Contains(t, sql, "ON CONFLICT (id) DO UPDATE")
	assert.Contains(t, downSQL(items), string(items[0].ID))
}
