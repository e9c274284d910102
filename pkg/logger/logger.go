// Package logger registro estructurado de ecolend-api (API HTTP y tareas
// programadas). Cada entrada lleva la marca de tiempo, el nombre del servicio
// y, vía Named, el componente que la emite ("http", "scheduler", ...).
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config se llena desde APP_ENV, LOG_LEVEL y APP_NAME.
type Config struct {
	Env     string    // "development": consola con colores; cualquier otro valor: una línea JSON por evento
	Level   string    // trace, debug, info, warn, error; desconocido -> info
	Service string    // campo "service"; vacío lo omite
	Out     io.Writer // nil = stdout
}

// Logger lo comparten handlers, scheduler y main; los casos de uso no registran,
// devuelven errores y el middleware HTTP decide qué se escribe.
type Logger struct {
	zl zerolog.Logger
}

// New arma el logger del proceso y lo instala también como logger global de
// zerolog, de modo que las entradas de librerías salgan con el mismo formato.
func New(cfg Config) *Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	var w io.Writer = out
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: out}
	}

	ctx := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	zl := ctx.Logger()
	log.Logger = zl

	return &Logger{zl: zl}
}

// Nop descarta todo. Lo usan los tests de router y scheduler.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }

// Fatal termina el proceso tras escribir; solo en el arranque de cmd/.
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Named etiqueta las entradas con component=<nombre>: "http" para el access
// log, "scheduler" para los barridos de contratos y facturas.
func (l *Logger) Named(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger()}
}
