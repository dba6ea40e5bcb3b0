//go:build !ORT

package encoder

import "github.com/knights-analytics/hugot"

func newHugotSession() (*hugot.Session, error) {
	return hugot.NewGoSession()
}
