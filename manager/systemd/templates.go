package systemd

import (
	"strings"
	"text/template"

	"github.com/svchost/svchost/label"
)

// serviceUnitData is the template data for the rendered [Service] unit.
// Field shapes mirror the teacher's TaskConfig-as-template-data pattern
// (systemd/template.go), generalized from nspawn machine settings to the
// plain service-unit fields the Manager contract actually needs.
type serviceUnitData struct {
	ExecStart string
	EnvVars   []label.EnvVar
	After     []string
	WantedBy  []string
}

type socketUnitData struct {
	ListenDirective string // "ListenStream" or "ListenDatagram"
	Address         string
}

var funcMaps = template.FuncMap{
	"join": strings.Join,
}

const serviceUnitTemplate = `[Unit]
Description={{.ExecStart}}
{{- range .After}}
After={{.}}
{{- end}}

[Service]
Type=notify
NotifyAccess=main
ExecStart={{.ExecStart}}
{{- range .EnvVars}}
Environment={{.Name}}={{.Value}}
{{- end}}

[Install]
{{- range .WantedBy}}
WantedBy={{.}}
{{- end}}
`

const socketUnitTemplate = `[Socket]
{{.ListenDirective}}={{.Address}}

[Install]
WantedBy=sockets.target
`

var (
	serviceTmpl = template.Must(template.New("service").Funcs(funcMaps).Parse(serviceUnitTemplate))
	socketTmpl  = template.Must(template.New("socket").Funcs(funcMaps).Parse(socketUnitTemplate))
)

func wantedByTargets(level label.Level) []string {
	if level == label.User {
		return []string{"default.target"}
	}
	return []string{"multi-user.target"}
}

func listenDirective(kind label.SocketKind) string {
	if kind == label.UDP {
		return "ListenDatagram"
	}
	return "ListenStream"
}
