package gcpclient

import (
	"context"
	"strings"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fakeAccessor is an in-memory secretAccessor. Secrets maps full version
// resource names (projects/X/secrets/Y/versions/latest) to payloads; Errors
// maps resource names to forced errors. Calls counts AccessSecretVersion
// invocations per resource name.
type fakeAccessor struct {
	Secrets map[string][]byte
	Errors  map[string]error
	Calls   map[string]int
	Closed  bool

	// AccessFunc overrides the default behavior when set.
	AccessFunc func(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

func newFakeAccessor() *fakeAccessor {
	return &fakeAccessor{
		Secrets: make(map[string][]byte),
		Errors:  make(map[string]error),
		Calls:   make(map[string]int),
	}
}

// AddSecret registers a secret's latest version payload.
func (f *fakeAccessor) AddSecret(projectID, name string, data []byte) {
	f.Secrets["projects/"+projectID+"/secrets/"+name+"/versions/latest"] = data
}

// FailWith forces an error for every access of the named secret.
func (f *fakeAccessor) FailWith(projectID, name string, err error) {
	f.Errors["projects/"+projectID+"/secrets/"+name+"/versions/latest"] = err
}

// TotalCalls reports the total number of AccessSecretVersion calls.
func (f *fakeAccessor) TotalCalls() int {
	total := 0
	for _, n := range f.Calls {
		total += n
	}
	return total
}

func (f *fakeAccessor) AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.Calls[req.GetName()]++

	if f.AccessFunc != nil {
		return f.AccessFunc(ctx, req)
	}

	if err, ok := f.Errors[req.GetName()]; ok {
		return nil, err
	}

	data, ok := f.Secrets[req.GetName()]
	if !ok {
		short := req.GetName()
		if i := strings.Index(short, "/secrets/"); i >= 0 {
			short = short[i+len("/secrets/"):]
		}
		return nil, status.Errorf(codes.NotFound, "Secret [%s] not found or has no versions", short)
	}

	return &secretmanagerpb.AccessSecretVersionResponse{
		Name: req.GetName(),
		Payload: &secretmanagerpb.SecretPayload{
			Data: data,
		},
	}, nil
}

func (f *fakeAccessor) Close() error {
	f.Closed = true
	return nil
}
