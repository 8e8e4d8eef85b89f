package id

import "github.com/teris-io/shortid"

func ShortId() string {
	sid, err := shortid.Generate()
	if err != nil {
		return GetUUIDWithoutDashes()[:9]
	}
	return sid
}
