package transport

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
)

// sqsBaseQueueURL mirrors the fixed account/region prefix every queue
// name is addressed under.
const sqsBaseQueueURL = "https://sqs.us-east-1.amazonaws.com/911777333295/"

var awsEnvVarsToUnset = []string{
	"AWS_ACCESS_KEY_ID",
	"AWS_SECRET_ACCESS_KEY",
	"AWS_SESSION_TOKEN",
	"AWS_DEFAULT_REGION",
	"AWS_DEFAULT_PROFILE",
	"AWS_ACCESS_KEY",
	"AWS_SECRET_KEY",
	"AWS_SDK_LOAD_CONFIG",
}

var unsetAWSEnvVarsOnce sync.Once

// unsetAWSEnvVars removes the AWS credential, region and profile
// environment variables listed in awsEnvVarsToUnset, so aws-sdk-go's
// default credential chain cannot pick them up when the session is built.
func unsetAWSEnvVars() {
	for _, env := range awsEnvVarsToUnset {
		os.Unsetenv(env)
	}
}

// awsBackend is the "aws" transport_kind: an SQS-relayed link used as
// the cloud leg of a gateway bridge. Each direction gets its own queue;
// a server-role backend sends on outQueue and receives on inQueue, a
// client-role backend does the mirror image, so both ends read the
// queue the other writes.
type awsBackend struct {
	role              Role
	outQueue, inQueue string

	svc *sqs.SQS

	closed int32
}

// newAWSBackend parses a URI of the form "aws://<queue-a>/<queue-b>":
// role=server sends on queue-a and receives on queue-b, role=client does
// the reverse.
func newAWSBackend(cfg Config) (Backend, error) {
	rest := strings.TrimPrefix(cfg.URI, "aws://")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("transport: aws uri must be aws://<queue-a>/<queue-b>, got %q", cfg.URI)
	}

	role := ParseParams(cfg.Params)
	b := &awsBackend{role: role}
	if role == RoleServer {
		b.outQueue, b.inQueue = parts[0], parts[1]
	} else {
		b.outQueue, b.inQueue = parts[1], parts[0]
	}
	return b, nil
}

func (b *awsBackend) Dial() error {
	unsetAWSEnvVarsOnce.Do(unsetAWSEnvVars)

	var conf client.ConfigProvider
	sess, err := session.NewSession(aws.NewConfig().WithRegion("us-east-1"))
	if err != nil {
		return err
	}
	conf = sess
	b.svc = sqs.New(conf)

	if err := b.ensureQueue(b.outQueue); err != nil {
		return err
	}
	return b.ensureQueue(b.inQueue)
}

func (b *awsBackend) ensureQueue(name string) error {
	_, err := b.svc.CreateQueue(&sqs.CreateQueueInput{
		QueueName: aws.String(name),
		Attributes: map[string]*string{
			sqs.QueueAttributeNameMessageRetentionPeriod: aws.String("172800"),
			sqs.QueueAttributeNameVisibilityTimeout:      aws.String("1"),
		},
	})
	return err
}

func (b *awsBackend) queueURL(name string) string { return sqsBaseQueueURL + name }

func (b *awsBackend) Send(msg []byte) error {
	if atomic.LoadInt32(&b.closed) != 0 {
		return ErrClosed
	}
	body := base64.StdEncoding.EncodeToString(msg)
	_, err := b.svc.SendMessage(&sqs.SendMessageInput{
		MessageBody: aws.String(body),
		QueueUrl:    aws.String(b.queueURL(b.outQueue)),
	})
	return err
}

// Recv long-polls inQueue until a message arrives, the backend is
// closed, or the underlying request fails.
func (b *awsBackend) Recv() ([]byte, error) {
	for {
		if atomic.LoadInt32(&b.closed) != 0 {
			return nil, ErrClosed
		}

		out, err := b.svc.ReceiveMessage(&sqs.ReceiveMessageInput{
			MaxNumberOfMessages: aws.Int64(1),
			QueueUrl:            aws.String(b.queueURL(b.inQueue)),
			WaitTimeSeconds:     aws.Int64(5),
		})
		if err != nil {
			return nil, err
		}
		if len(out.Messages) == 0 {
			continue
		}

		m := out.Messages[0]
		if _, err := b.svc.DeleteMessage(&sqs.DeleteMessageInput{
			QueueUrl:      aws.String(b.queueURL(b.inQueue)),
			ReceiptHandle: m.ReceiptHandle,
		}); err != nil {
			return nil, err
		}

		return base64.StdEncoding.DecodeString(*m.Body)
	}
}

func (b *awsBackend) Close() error {
	atomic.StoreInt32(&b.closed, 1)
	return nil
}
