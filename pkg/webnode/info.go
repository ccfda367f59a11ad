package webnode

import "fmt"

// Info is the public identity of a node.
type Info struct {
	ID          string      `json:"id"`
	Environment Environment `json:"environment"`
	BaseDomain  string      `json:"base_domain"`
	Port        int         `json:"port"`
	Secure      bool        `json:"secure"`
	URL         string      `json:"url"`
}

// Info reports the node identity and public URL: localhost:port on a
// localhost base domain, the base domain for the main node, and
// id.baseDomain otherwise.
func (n *Node) Info() Info {
	secure := n.opts.Secure != nil && *n.opts.Secure
	scheme := "http"
	if secure {
		scheme = "https"
	}

	var url string
	switch {
	case n.opts.BaseDomain == DefaultBaseDomain:
		url = fmt.Sprintf("%s://localhost:%d", scheme, n.opts.Port)
	case n.opts.ID == MainID:
		url = fmt.Sprintf("%s://%s", scheme, n.opts.BaseDomain)
	default:
		url = fmt.Sprintf("%s://%s.%s", scheme, n.opts.ID, n.opts.BaseDomain)
	}

	return Info{
		ID:          n.opts.ID,
		Environment: n.opts.Environment,
		BaseDomain:  n.opts.BaseDomain,
		Port:        n.opts.Port,
		Secure:      secure,
		URL:         url,
	}
}
