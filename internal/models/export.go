package models

import "time"

// ExportDocument is the serialized form of the full user collection plus
// export metadata. It is both what ExportUserData writes and what
// ImportUserData accepts.
//
// Password hashes are present only when the export was taken with
// IncludePasswordHashes; records imported without a hash cannot authenticate
// until a password reset installs one.
type ExportDocument struct {
	ExportedAt     time.Time `json:"exportedAt"`
	SourceMode     string    `json:"sourceMode"`
	IncludesHashes bool      `json:"includesHashes"`
	Users          []User    `json:"users"`
}
