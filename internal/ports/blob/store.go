// Package blob es el puerto de almacenamiento de snapshots exportados de la grilla.
package blob

import (
	"context"
	"io"
	"time"
)

type Driver string

const (
	DriverFS Driver = "fs"
	DriverS3 Driver = "s3"
)

type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Store escribe objetos solo-creación y los lista por prefijo de key.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}
