package main

import (
	"fmt"
	"strings"

	"github.com/elijahnyp/casa_controller/state"
	"github.com/elijahnyp/casa_controller/util"
)

// MaxResponseSize bounds the whole wire response, headers included. The
// page must always fit; growing it past the bound is a construction error,
// never a silent truncation.
const MaxResponseSize = 2048

// maxLabelLen keeps the device table from inflating the page past its
// bound. Labels are capped at build time so the size check cannot be
// tripped by config alone.
const maxLabelLen = 32

var ErrResponseTooLarge = fmt.Errorf("rendered response exceeds %d bytes", MaxResponseSize)

const pageHeader = "HTTP/1.1 200 OK\r\n" +
	"Content-Type: text/html\r\n" +
	"Connection: close\r\n" +
	"\r\n"

const pageTop = `<!DOCTYPE html>
<html>
<head>
<title>Controle Residencial</title>
<style>
body { background-color: rgb(188, 251, 181); font-family: Arial, sans-serif; text-align: center; margin-top: 50px; }
h1 { font-size: 48px; margin-bottom: 30px; }
button { background-color: LightBlue; font-size: 28px; margin: 8px; padding: 14px 28px; border-radius: 10px; }
.temperature { font-size: 36px; margin-top: 30px; color: #333; }
</style>
</head>
<body>
<h1>Controle Residencial</h1>
`

const pageBottom = "</body>\n</html>\n"

// PageRenderer builds the status page. Every call renders from scratch:
// both the toggles and the temperature may have changed since the last
// request.
type PageRenderer struct {
	house util.HouseModel
}

func NewPageRenderer(house util.HouseModel) *PageRenderer {
	return &PageRenderer{house: house}
}

// RenderResponse builds the complete HTTP response bytes for the current
// state. The result is guaranteed to fit MaxResponseSize or an error is
// returned and nothing should be written.
func (p *PageRenderer) RenderResponse(snap state.Snapshot, tempC float64) ([]byte, error) {
	var b strings.Builder
	b.Grow(MaxResponseSize)
	b.WriteString(pageHeader)
	b.WriteString(pageTop)

	for _, dev := range p.house.Devices {
		label := dev.Label
		if runes := []rune(label); len(runes) > maxLabelLen {
			label = string(runes[:maxLabelLen])
		}
		stateWord := "desligada"
		if snap.On(state.Device(dev.Key)) {
			stateWord = "ligada"
		}
		fmt.Fprintf(&b, "<form action=\".%s\"><button>%s (%s)</button></form>\n", dev.Path, label, stateWord)
	}

	fmt.Fprintf(&b, "<p class=\"temperature\">Temperatura Interna: %.2f &deg;C</p>\n", tempC)
	b.WriteString(pageBottom)

	if b.Len() > MaxResponseSize {
		return nil, ErrResponseTooLarge
	}
	return []byte(b.String()), nil
}
