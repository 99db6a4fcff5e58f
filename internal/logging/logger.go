package logging

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	*logrus.Logger
	routerName string
}

// NewLogger creates a new logger instance for a router
func NewLogger(name string) *Logger {
	logger := logrus.New()

	// Format: [name] timestamp level message
	logger.SetFormatter(&CustomFormatter{
		name: name,
	})

	logger.SetLevel(logrus.InfoLevel)

	return &Logger{
		Logger:     logger,
		routerName: name,
	}
}

// NewGlobalLogger creates a logger for process-wide logging (like main.go)
func NewGlobalLogger() *Logger {
	logger := logrus.New()

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})

	logger.SetLevel(logrus.InfoLevel)

	return &Logger{
		Logger: logger,
	}
}

// Name returns the router name the logger was created for.
func (l *Logger) Name() string {
	return l.routerName
}

// CustomFormatter implements our log format: [name] timestamp level message.
// Only the error field is rendered, as error=...; other fields are left out.
type CustomFormatter struct {
	name string
}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format("2006-01-02T15:04:05Z07:00")
	level := entry.Level.String()

	logLine := fmt.Sprintf("[%s] %s %s %s", f.name, timestamp, level, entry.Message)
	if err, ok := entry.Data[logrus.ErrorKey]; ok {
		logLine += fmt.Sprintf(" error=%v", err)
	}

	return []byte(logLine + "\n"), nil
}

// Helper methods for common log patterns
func (l *Logger) InfoNavigate(action, from, to string) {
	l.WithFields(logrus.Fields{
		"action": action,
		"from":   from,
		"to":     to,
	}).Infof("%s %s -> %s", action, from, to)
}

func (l *Logger) InfoCleanup(raw, canonical string) {
	l.WithFields(logrus.Fields{
		"raw":       raw,
		"canonical": canonical,
	}).Infof("Cleaned up initial URL %s -> %s", raw, canonical)
}

func (l *Logger) DebugMatch(url, route string) {
	l.WithFields(logrus.Fields{
		"url":   url,
		"route": route,
	}).Debugf("%s matched %s", url, route)
}

func (l *Logger) WarnNoMatch(url string) {
	l.WithField("url", url).Warnf("%s matched no route", url)
}

func (l *Logger) InfoRequest(method, path, clientIP string) {
	l.WithFields(logrus.Fields{
		"method":    method,
		"path":      path,
		"client_ip": clientIP,
	}).Infof("<- %s %s from %s", method, path, clientIP)
}

func (l *Logger) InfoResponse(status int, method, path string, size int64, duration string) {
	l.WithFields(logrus.Fields{
		"status":   status,
		"method":   method,
		"path":     path,
		"size":     size,
		"duration": duration,
	}).Infof("-> %d %s %s (%d bytes, %s)", status, method, path, size, duration)
}

func (l *Logger) WarnNoRoute(method, path string, duration string) {
	l.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"duration": duration,
	}).Warnf("-> 404 %s %s (no matching route, %s)", method, path, duration)
}
