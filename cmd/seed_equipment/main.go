// seed_equipment genera la migración SQL con el catálogo inicial de equipos
// a partir de un CSV (name,category,total_quantity[,certification]).
//
// Uso: go run ./cmd/seed_equipment [-latin1] [ruta/equipos.csv]
// Por defecto busca equipos.csv en el directorio actual y detecta ISO-8859-1 si el archivo no es UTF-8 válido.
// Escribe: internal/infrastructure/postgres/migrations/0002_seed_equipment.{up,down}.sql
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func main() {
	latin1 := flag.Bool("latin1", false, "forzar decodificación ISO-8859-1")
	flag.Parse()

	csvPath := "equipos.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	items, err := parseCatalogue(raw, *latin1, time.Now().UTC())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	dir := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations")
	up := filepath.Join(dir, "0002_seed_equipment.up.sql")
	down := filepath.Join(dir, "0002_seed_equipment.down.sql")
	if err := os.WriteFile(up, []byte(upSQL(items)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(down, []byte(downSQL(items)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generado %s: %d equipos\n", up, len(items))
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
