package model

import (
	"github.com/gofiber/websocket/v2"
)

type Player struct {
	ID    string
	Color PlayerColor
	Conn  *websocket.Conn
}

type ClientPlayer struct {
	ID    string `json:"name"`
	Color string `json:"color"`
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)
