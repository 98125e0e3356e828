package domain

import "time"

// Team is a maintenance or administrative crew tickets get routed to.
type Team struct {
	ID         string
	Name       string
	Categories []PQRCategory
	MemberIDs  []string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
