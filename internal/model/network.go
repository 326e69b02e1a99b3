package model

import "time"

type InterfaceTotals struct {
	Name        string `json:"name"`
	BytesSent   uint64 `json:"bytes_sent"`
	BytesRecv   uint64 `json:"bytes_recv"`
	PacketsSent uint64 `json:"packets_sent"`
	PacketsRecv uint64 `json:"packets_recv"`
}

type NetworkSnapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Flags     Flags     `json:"flags,omitzero"`

	UploadBytesPerSec   float64 `json:"upload_bytes_per_sec"`
	DownloadBytesPerSec float64 `json:"download_bytes_per_sec"`

	Interfaces        []InterfaceTotals `json:"interfaces"`
	ActiveConnections int               `json:"active_connections"`
}

func (s NetworkSnapshot) SampleTime() time.Time { return s.Timestamp }

func (s NetworkSnapshot) MarkedOutOfOrder() NetworkSnapshot {
	s.Flags.OutOfOrder = true
	return s
}
