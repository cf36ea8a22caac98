package model

// Invite is one admin-issued invite code.
type Invite struct {
	Code      string `json:"codigo" yaml:"code"`
	CreatedBy string `json:"criado_por" yaml:"created_by"`
	CreatedAt string `json:"criado_em" yaml:"created_at"`
	Used      bool   `json:"usado" yaml:"used"`
	UsedBy    string `json:"usado_por,omitempty" yaml:"used_by,omitempty"`
	UsedAt    string `json:"usado_em,omitempty" yaml:"used_at,omitempty"`
}

// InviteList is the response of GET /api/admin/listar-convites.
type InviteList struct {
	Total     int      `json:"total" yaml:"total"`
	Available int      `json:"disponiveis" yaml:"available"`
	Used      int      `json:"usados" yaml:"used"`
	Invites   []Invite `json:"convites" yaml:"invites"`
}
