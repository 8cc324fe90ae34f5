package archive

import (
	"sync"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
)

var registerS3Once sync.Once

// RegisterS3 wires the "s3://" scheme into github.com/grailbio/base/file so
// that an archive template beginning with s3:// streams straight to a
// bucket. Idempotent; safe to call once at startup whether or not any
// configured archive actually uses s3://.
func RegisterS3() {
	registerS3Once.Do(func() {
		file.RegisterImplementation("s3", func() file.Implementation {
			return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
		})
	})
}
