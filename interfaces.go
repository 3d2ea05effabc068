package fronius

import "context"

// Transport fetches a URL and returns the decoded JSON body.
type Transport interface {
	GetJSON(ctx context.Context, url string) (any, error)
}

type Notification interface {
	APIVersionResolved(version APIVersion, basePath string)
	RequestFailed(endpoint Endpoint, err error)
}

var NilNotification = nilNotification{}

type nilNotification struct {
}

func (n nilNotification) APIVersionResolved(_ APIVersion, _ string) {
}

func (n nilNotification) RequestFailed(_ Endpoint, _ error) {

}
