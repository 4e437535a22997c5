package restyutil

import (
	"strings"

	"github.com/go-resty/resty/v2"
)

// Dump writes every response the client receives, along with its request, to
// output. A nil output leaves the client untouched.
func Dump(client *resty.Client, output Output) {
	if output == nil {
		return
	}
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		output.Write(strings.ToLower(res.Request.Method), FormatHttpMessage(res))
		return nil
	})
}
