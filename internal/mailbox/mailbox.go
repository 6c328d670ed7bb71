package mailbox

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"

	"fastzila-analytics/internal/config"
	"fastzila-analytics/internal/ingest"
)

// seenStore remembers which messages were already processed across runs.
type seenStore interface {
	MarkSeen(ctx context.Context, digest string) (bool, error)
	Forget(ctx context.Context, digest string) error
}

// Client pulls report attachments out of the shared mailbox. Messages from
// the allowed senders are downloaded and archived; everything else stays in
// the inbox untouched.
type Client struct {
	cfg    config.MailConfig
	seen   seenStore
	logger *zap.Logger
}

func New(cfg config.MailConfig, seen seenStore, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		seen:   seen,
		logger: logger,
	}
}

// Fetch downloads attachments from the inbox into the working directory and
// moves the processed messages to the archive folder. Messages already seen
// in a previous run are archived without downloading again.
func (c *Client) Fetch(ctx context.Context) ([]ingest.File, error) {
	const operation = "mailbox.Fetch"

	if err := os.MkdirAll(c.cfg.WorkDir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	imapClient, err := client.DialTLS(c.cfg.IMAPAddr, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: dial %s: %w", operation, c.cfg.IMAPAddr, err)
	}
	defer imapClient.Logout()

	if err := imapClient.Login(c.cfg.Login, c.cfg.Password); err != nil {
		return nil, fmt.Errorf("%s: login: %w", operation, err)
	}

	inbox, err := imapClient.Select("INBOX", false)
	if err != nil {
		return nil, fmt.Errorf("%s: select inbox: %w", operation, err)
	}
	if inbox.Messages == 0 {
		c.logger.Info("Mailbox is empty")
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddRange(1, inbox.Messages)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- imapClient.Fetch(seqset, items, messages)
	}()

	var files []ingest.File
	var loopErr error
	processed := new(imap.SeqSet)

	for msg := range messages {
		if loopErr != nil {
			// keep draining so the fetch goroutine can finish
			continue
		}
		saved, archive, err := c.handleMessage(ctx, msg, section)
		if err != nil {
			loopErr = fmt.Errorf("%s: %w", operation, err)
			continue
		}
		if archive {
			processed.AddNum(msg.Uid)
		}
		files = append(files, saved...)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("%s: fetch: %w", operation, err)
	}
	if loopErr != nil {
		return nil, loopErr
	}

	if len(processed.Set) > 0 {
		if err := imapClient.UidMove(processed, c.cfg.ArchiveFolder); err != nil {
			return nil, fmt.Errorf("%s: move to %s: %w", operation, c.cfg.ArchiveFolder, err)
		}
	}

	c.logger.Info("Mailbox fetch finished", zap.Int("attachments", len(files)))
	return files, nil
}

// handleMessage downloads one message's attachments and reports whether the
// message should be archived. A message seen in a previous run is archived
// without downloading again. When the save fails the seen marker is rolled
// back so the next run retries the message instead of skipping it.
func (c *Client) handleMessage(ctx context.Context, msg *imap.Message, section *imap.BodySectionName) ([]ingest.File, bool, error) {
	sender := senderAddress(msg.Envelope)
	if !c.allowed(sender) {
		return nil, false, nil
	}

	digest := messageDigest(msg)
	fresh, err := c.seen.MarkSeen(ctx, digest)
	if err != nil {
		return nil, false, err
	}
	if !fresh {
		c.logger.Info("Skipping already processed message",
			zap.String("sender", sender), zap.Uint32("uid", msg.Uid))
		return nil, true, nil
	}

	saved, err := c.saveAttachments(msg, sender, section)
	if err != nil {
		if forgetErr := c.seen.Forget(ctx, digest); forgetErr != nil {
			c.logger.Warn("Failed to roll back the seen marker",
				zap.String("digest", digest), zap.Error(forgetErr))
		}
		return nil, false, err
	}
	return saved, true, nil
}

func (c *Client) saveAttachments(msg *imap.Message, sender string, section *imap.BodySectionName) ([]ingest.File, error) {
	body := msg.GetBody(section)
	if body == nil {
		return nil, nil
	}

	reader, err := mail.CreateReader(body)
	if err != nil {
		return nil, fmt.Errorf("message from %s: %w", sender, err)
	}

	var files []ingest.File
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("message from %s: %w", sender, err)
		}

		header, ok := part.Header.(*mail.AttachmentHeader)
		if !ok {
			continue
		}
		filename, err := header.Filename()
		if err != nil || filename == "" {
			continue
		}

		// The sender and message date ride along in the stored name so a
		// crashed run can still be traced back to its mail.
		stored := fmt.Sprintf("%s.%s.%s", msg.Envelope.Date.Format("2006-01-02"), sender, filename)
		path := filepath.Join(c.cfg.WorkDir, stored)

		out, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(out, part.Body); err != nil {
			out.Close()
			return nil, fmt.Errorf("save %s: %w", stored, err)
		}
		if err := out.Close(); err != nil {
			return nil, err
		}

		c.logger.Info("Attachment saved",
			zap.String("file", filename), zap.String("sender", sender))
		files = append(files, ingest.File{
			Path:   path,
			Name:   filename,
			Sender: sender,
			Date:   msg.Envelope.Date,
		})
	}
	return files, nil
}

func (c *Client) allowed(sender string) bool {
	if sender == "" {
		return false
	}
	if len(c.cfg.AllowedSenders) == 0 {
		return true
	}
	for _, allowed := range c.cfg.AllowedSenders {
		if strings.EqualFold(sender, allowed) {
			return true
		}
	}
	return false
}

func senderAddress(envelope *imap.Envelope) string {
	if envelope == nil || len(envelope.From) == 0 {
		return ""
	}
	return envelope.From[0].Address()
}

func messageDigest(msg *imap.Message) string {
	if id := msg.Envelope.MessageId; id != "" {
		return id
	}
	return fmt.Sprintf("uid:%d:%s", msg.Uid, msg.Envelope.Date.Format("2006-01-02T15:04:05"))
}
