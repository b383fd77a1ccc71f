package model

type Plan struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Installer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
