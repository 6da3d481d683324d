package vpn

import (
	_ "embed"
	"net/netip"
	"strings"
	"text/template"

	"github.com/yllada/lanparty-client/common"
	"github.com/yllada/lanparty-client/config"
)

//go:embed client.ovpn.tmpl
var clientTemplateText string

var clientTemplate = template.Must(template.New("client.ovpn").Option("missingkey=error").Parse(clientTemplateText))

type clientTemplateData struct {
	Protocol       string
	Address        string
	Port           uint16
	UseTcp         bool
	PasswordFile   string
	MTU            int
	Fragment       int
	MSSFix         int
	ManagementHost string
	ManagementPort int
	LogFile        string
}

// RenderConfig produces the OpenVPN client configuration for cfg, pointing
// at addr. The output only depends on its inputs.
func RenderConfig(cfg *config.RunConfig, addr netip.Addr) (string, error) {
	data := clientTemplateData{
		Protocol:       cfg.Protocol(),
		Address:        addr.String(),
		Port:           cfg.Port(),
		UseTcp:         cfg.UseTcp,
		PasswordFile:   common.PasswordFileName,
		MTU:            common.TunnelMTU,
		Fragment:       common.FragmentSize,
		MSSFix:         common.MSSFix,
		ManagementHost: common.ManagementHost,
		ManagementPort: common.ManagementPort,
		LogFile:        common.OpenVPNLogFileName,
	}

	var sb strings.Builder
	if err := clientTemplate.Execute(&sb, data); err != nil {
		return "", common.WrapError(err, "failed to render openvpn config")
	}
	return sb.String(), nil
}
