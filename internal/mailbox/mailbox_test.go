package mailbox

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/emersion/go-imap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fastzila-analytics/internal/config"
)

type fakeSeenStore struct {
	marked    map[string]bool
	forgotten []string
}

func newFakeSeenStore() *fakeSeenStore {
	return &fakeSeenStore{marked: make(map[string]bool)}
}

func (f *fakeSeenStore) MarkSeen(_ context.Context, digest string) (bool, error) {
	if f.marked[digest] {
		return false, nil
	}
	f.marked[digest] = true
	return true, nil
}

func (f *fakeSeenStore) Forget(_ context.Context, digest string) error {
	delete(f.marked, digest)
	f.forgotten = append(f.forgotten, digest)
	return nil
}

// attachmentMessage builds a fetched message carrying one Excel attachment.
func attachmentMessage(uid uint32) (*imap.Message, *imap.BodySectionName) {
	raw := "From: romanova_tat@fastzila.ru\r\n" +
		"To: reports@fastzila.ru\r\n" +
		"Subject: report\r\n" +
		"Content-Type: multipart/mixed; boundary=frontier\r\n" +
		"\r\n" +
		"--frontier\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"See attached.\r\n" +
		"--frontier\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"Content-Disposition: attachment; filename=\"report.xlsx\"\r\n" +
		"\r\n" +
		"payload\r\n" +
		"--frontier--\r\n"

	section := &imap.BodySectionName{}
	msg := &imap.Message{
		Uid: uid,
		Envelope: &imap.Envelope{
			MessageId: "<report-42@mail.fastzila.ru>",
			Date:      time.Date(2024, time.April, 2, 10, 0, 0, 0, time.UTC),
			From:      []*imap.Address{{MailboxName: "romanova_tat", HostName: "fastzila.ru"}},
		},
		Body: map[*imap.BodySectionName]imap.Literal{
			section: bytes.NewBufferString(raw),
		},
	}
	return msg, section
}

func TestHandleMessage_SavesAttachment(t *testing.T) {
	store := newFakeSeenStore()
	c := New(config.MailConfig{WorkDir: t.TempDir()}, store, zap.NewNop())
	msg, section := attachmentMessage(42)

	files, archive, err := c.handleMessage(context.Background(), msg, section)

	require.NoError(t, err)
	assert.True(t, archive)
	require.Len(t, files, 1)
	assert.Equal(t, "report.xlsx", files[0].Name)
	assert.Equal(t, "romanova_tat@fastzila.ru", files[0].Sender)

	saved, err := os.ReadFile(files[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(saved))
}

func TestHandleMessage_SaveFailureRollsBackSeenMarker(t *testing.T) {
	store := newFakeSeenStore()
	c := New(config.MailConfig{WorkDir: filepath.Join(t.TempDir(), "missing")}, store, zap.NewNop())
	msg, section := attachmentMessage(42)

	_, archive, err := c.handleMessage(context.Background(), msg, section)

	require.Error(t, err)
	assert.False(t, archive, "a message whose save failed must stay in the inbox")
	require.Len(t, store.forgotten, 1)
	assert.Equal(t, messageDigest(msg), store.forgotten[0])

	// With the marker rolled back the next run picks the message up again.
	c.cfg.WorkDir = t.TempDir()
	msg, section = attachmentMessage(42)
	files, archive, err := c.handleMessage(context.Background(), msg, section)
	require.NoError(t, err)
	assert.True(t, archive)
	assert.Len(t, files, 1)
}

func TestHandleMessage_SeenMessageArchivedWithoutDownload(t *testing.T) {
	store := newFakeSeenStore()
	c := New(config.MailConfig{WorkDir: t.TempDir()}, store, zap.NewNop())
	msg, section := attachmentMessage(42)
	store.marked[messageDigest(msg)] = true

	files, archive, err := c.handleMessage(context.Background(), msg, section)

	require.NoError(t, err)
	assert.True(t, archive)
	assert.Empty(t, files)
	assert.Empty(t, store.forgotten)
}

func TestHandleMessage_DisallowedSenderIgnored(t *testing.T) {
	store := newFakeSeenStore()
	c := New(config.MailConfig{
		WorkDir:        t.TempDir(),
		AllowedSenders: []string{"vlasiuk@fastzila.ru"},
	}, store, zap.NewNop())
	msg, section := attachmentMessage(42)

	files, archive, err := c.handleMessage(context.Background(), msg, section)

	require.NoError(t, err)
	assert.False(t, archive)
	assert.Empty(t, files)
	assert.Empty(t, store.marked)
}

func TestAllowed(t *testing.T) {
	c := New(config.MailConfig{
		AllowedSenders: []string{"romanova_tat@fastzila.ru", "vlasiuk@fastzila.ru"},
	}, nil, zap.NewNop())

	assert.True(t, c.allowed("romanova_tat@fastzila.ru"))
	assert.True(t, c.allowed("VLASIUK@fastzila.ru"))
	assert.False(t, c.allowed("spammer@example.com"))
	assert.False(t, c.allowed(""))
}

func TestAllowed_NoFilterAcceptsEveryone(t *testing.T) {
	c := New(config.MailConfig{}, nil, zap.NewNop())

	assert.True(t, c.allowed("anyone@example.com"))
	assert.False(t, c.allowed(""))
}

func TestSenderAddress(t *testing.T) {
	assert.Empty(t, senderAddress(nil))
	assert.Empty(t, senderAddress(&imap.Envelope{}))

	envelope := &imap.Envelope{
		From: []*imap.Address{{MailboxName: "pugachev", HostName: "fastzila.ru"}},
	}
	assert.Equal(t, "pugachev@fastzila.ru", senderAddress(envelope))
}

func TestMessageDigest(t *testing.T) {
	withID := &imap.Message{Envelope: &imap.Envelope{MessageId: "<abc@mail>"}}
	assert.Equal(t, "<abc@mail>", messageDigest(withID))

	withoutID := &imap.Message{Uid: 42, Envelope: &imap.Envelope{}}
	assert.Contains(t, messageDigest(withoutID), "uid:42")
}
