package dto

import (
	"delivery-tracker-service/internal/domain"
	"time"
)

type CoordinateResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type CustomerResponse struct {
	Position CoordinateResponse `json:"position"`
	Address  string             `json:"address"`
}

// TrackResponse is the wire shape of one delivery snapshot.
type TrackResponse struct {
	Driver    CoordinateResponse   `json:"driver"`
	Customer  CustomerResponse     `json:"customer"`
	History   []CoordinateResponse `json:"history"`
	FetchedAt time.Time            `json:"fetchedAt"`
}

func FromSnapshot(snap domain.Snapshot) TrackResponse {
	res := TrackResponse{
		Driver: CoordinateResponse{Lat: snap.Driver.Lat, Lon: snap.Driver.Lon},
		Customer: CustomerResponse{
			Position: CoordinateResponse{
				Lat: snap.Customer.Position.Lat,
				Lon: snap.Customer.Position.Lon,
			},
			Address: snap.Customer.Address,
		},
		History:   make([]CoordinateResponse, 0, len(snap.History)),
		FetchedAt: snap.FetchedAt,
	}
	for _, p := range snap.History {
		res.History = append(res.History, CoordinateResponse{Lat: p.Lat, Lon: p.Lon})
	}
	return res
}
