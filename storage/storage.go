// Package storage defines the snapshot store used for revision diffing and
// for the feed server: published calendar sets persisted under a source
// tag, loadable per tag or per tournament code.
package storage

import (
	"github.com/wcraigtrader/wbc/calendar"
)

const DefaultFile = "wbc.bdb"

type Saver interface {
	SaveSnapshot(tag string, entries []calendar.Entry) error
}

type Loader interface {
	LoadSnapshot(tag string) ([]calendar.Entry, error)
	LoadCode(tag, code string) ([]calendar.Entry, error)
	Tags() ([]string, error)
}
