// Package protocol defines the wire format shared by the PC agent and its
// clients: the UDP discovery exchange and the mobile command envelope.
// This package is importable by the mobile companion and other clients.
package protocol

// DiscoveryProbe is the exact payload a client broadcasts to find hosts.
// Anything else received on the discovery port is ignored.
const DiscoveryProbe = "SMARTDESK_DISCOVERY"

// AnnouncementType identifies a discovery reply from a PC agent.
const AnnouncementType = "smartdesk_pc"

// Announcement is the unicast JSON reply a host sends to a discovery probe.
type Announcement struct {
	Type string `json:"type"`
	IP   string `json:"ip"`
	Port int    `json:"port"`
	Code string `json:"code"`
	Name string `json:"name"`
}
