package config

import (
	"errors"
	"strings"

	"github.com/pion/webrtc/v4"
)

// ICEServerSpec is the yaml shape of one ICE server entry.
type ICEServerSpec struct {
	URLs       []string `mapstructure:"urls" json:"urls"`
	Username   string   `mapstructure:"username" json:"username,omitempty"`
	Credential string   `mapstructure:"credential" json:"credential,omitempty"`
}

var (
	ErrICEServerNoURLs = errors.New("ice server entry has no urls")
	ErrICEServerScheme = errors.New("ice server url must start with stun:, stuns:, turn: or turns:")
)

func validateICEServers(specs []ICEServerSpec) error {
	for _, s := range specs {
		if len(s.URLs) == 0 {
			return ErrICEServerNoURLs
		}
		for _, raw := range s.URLs {
			url := strings.ToLower(strings.TrimSpace(raw))
			if !strings.HasPrefix(url, "stun:") &&
				!strings.HasPrefix(url, "stuns:") &&
				!strings.HasPrefix(url, "turn:") &&
				!strings.HasPrefix(url, "turns:") {
				return ErrICEServerScheme
			}
		}
	}
	return nil
}

// WebRTCICEServers converts the configured list into the shape peers use to
// construct their RTCPeerConnection. The coordinator itself never
// opens one; it only hands the list out.
func (c *Config) WebRTCICEServers() []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, 0, len(c.ICEServers))
	for _, s := range c.ICEServers {
		server := webrtc.ICEServer{URLs: s.URLs}
		if s.Username != "" {
			server.Username = s.Username
		}
		if s.Credential != "" {
			server.Credential = s.Credential
		}
		out = append(out, server)
	}
	return out
}
