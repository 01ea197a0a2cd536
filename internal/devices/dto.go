package devices

import "time"

type DeviceResponse struct {
	ID       uint64    `json:"id"`
	SN       string    `json:"sn"`
	LastSeen time.Time `json:"last_seen"`
	Status   string    `json:"status"` // online | offline
}

type ListDevicesResponse struct {
	Devices []DeviceResponse `json:"devices"`
}
