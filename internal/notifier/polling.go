package notifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// CommandHandler answers an operator command. An empty reply sends nothing.
type CommandHandler func(ctx context.Context, command string) string

// Command is one text message taken from a getUpdates response.
type Command struct {
	UpdateID int64
	ChatID   string
	Text     string
}

// parseUpdates extracts text messages from a getUpdates body.
func parseUpdates(body []byte) ([]Command, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid json")
	}
	res := gjson.ParseBytes(body)
	if !res.Get("ok").Bool() {
		return nil, fmt.Errorf("telegram returned ok=false: %s", res.Get("description").String())
	}
	var cmds []Command
	res.Get("result").ForEach(func(_, u gjson.Result) bool {
		cmds = append(cmds, Command{
			UpdateID: u.Get("update_id").Int(),
			ChatID:   u.Get("message.chat.id").String(),
			Text:     strings.TrimSpace(u.Get("message.text").String()),
		})
		return true
	})
	return cmds, nil
}

// StartPolling long-polls for operator commands until ctx is cancelled.
// Messages from chats other than the configured one are ignored.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	var offset int64
	for {
		if ctx.Err() != nil {
			log.Info().Msg("telegram polling stopped")
			return
		}

		cmds, err := t.getUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Msg("telegram polling failed")
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, cmd := range cmds {
			offset = cmd.UpdateID + 1
			if cmd.Text == "" || cmd.ChatID != t.ChatID {
				continue
			}
			log.Info().Str("command", cmd.Text).Msg("received operator command")
			if reply := handler(ctx, cmd.Text); reply != "" {
				if err := t.Send(ctx, reply); err != nil {
					log.Error().Err(err).Msg("send reply")
				}
			}
		}
	}
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, offset int64) ([]Command, error) {
	apiURL := fmt.Sprintf("%s?offset=%d&timeout=30", t.endpoint("getUpdates"), offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create polling request: %w", err)
	}
	client := &http.Client{Timeout: 35 * time.Second, Transport: t.Client.Transport}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polling request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read polling response: %w", err)
	}
	return parseUpdates(body)
}
