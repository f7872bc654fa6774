// Package twitchapi contains minimal helpers to interact with Twitch
// Helix APIs for user id resolution, stream-live state and the chatter
// list, using an app access token.
package twitchapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

// HelixClient provides the minimal methods the bot needs.
type HelixClient struct {
	AppTokenSource *TokenSource
	ClientID       string
	HTTPClient     *http.Client
}

func (hc *HelixClient) http() *http.Client {
	if hc.HTTPClient != nil {
		return hc.HTTPClient
	}
	return http.DefaultClient
}

func (hc *HelixClient) get(ctx context.Context, rawURL string, query map[string]string, out any) error {
	tok, err := hc.AppTokenSource.Get(ctx)
	if err != nil {
		return err
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	q := req.URL.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Client-Id", hc.ClientID)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := hc.http().Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("helix request failed: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetUserID resolves a login name to its user ID.
func (hc *HelixClient) GetUserID(ctx context.Context, login string) (string, error) {
	if login == "" {
		return "", fmt.Errorf("login empty")
	}
	var body struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := hc.get(ctx, "https://api.twitch.tv/helix/users", map[string]string{"login": login}, &body); err != nil {
		return "", err
	}
	if len(body.Data) == 0 {
		return "", fmt.Errorf("user not found")
	}
	return body.Data[0].ID, nil
}

// IsStreamOnline reports whether the channel is currently live.
func (hc *HelixClient) IsStreamOnline(ctx context.Context, channel string) (bool, error) {
	if channel == "" {
		return false, fmt.Errorf("channel empty")
	}
	var body struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := hc.get(ctx, "https://api.twitch.tv/helix/streams", map[string]string{"user_login": channel}, &body); err != nil {
		return false, err
	}
	return len(body.Data) > 0, nil
}

// GetChatters lists the login names of everyone connected to the
// channel's chat, following pagination cursors until exhausted. The
// moderator must be the bot account (or another moderator of the
// channel) per the Helix chatters endpoint rules.
func (hc *HelixClient) GetChatters(ctx context.Context, broadcasterID, moderatorID string) ([]string, error) {
	if broadcasterID == "" || moderatorID == "" {
		return nil, fmt.Errorf("broadcasterID/moderatorID empty")
	}
	var logins []string
	after := ""
	for {
		query := map[string]string{
			"broadcaster_id": broadcasterID,
			"moderator_id":   moderatorID,
			"first":          "1000",
		}
		if after != "" {
			query["after"] = after
		}
		var body struct {
			Data []struct {
				UserLogin string `json:"user_login"`
			} `json:"data"`
			Pagination struct {
				Cursor string `json:"cursor"`
			} `json:"pagination"`
		}
		if err := hc.get(ctx, "https://api.twitch.tv/helix/chat/chatters", query, &body); err != nil {
			return nil, err
		}
		for _, d := range body.Data {
			logins = append(logins, d.UserLogin)
		}
		if body.Pagination.Cursor == "" {
			return logins, nil
		}
		after = body.Pagination.Cursor
	}
}

// StatusClient adapts the Helix client to the bot's status collaborator:
// live state for the configured channel and the viewer list for the
// reward job. Broadcaster and moderator ids are resolved once and cached.
type StatusClient struct {
	Helix       *HelixClient
	Channel     string
	BotUsername string

	mu            sync.Mutex
	broadcasterID string
	moderatorID   string
}

func (sc *StatusClient) IsStreamOnline(ctx context.Context) (bool, error) {
	return sc.Helix.IsStreamOnline(ctx, sc.Channel)
}

func (sc *StatusClient) GetViewerUserIDs(ctx context.Context) ([]string, error) {
	broadcaster, moderator, err := sc.resolveIDs(ctx)
	if err != nil {
		return nil, err
	}
	return sc.Helix.GetChatters(ctx, broadcaster, moderator)
}

func (sc *StatusClient) resolveIDs(ctx context.Context) (string, string, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.broadcasterID == "" {
		id, err := sc.Helix.GetUserID(ctx, sc.Channel)
		if err != nil {
			return "", "", fmt.Errorf("resolve broadcaster: %w", err)
		}
		sc.broadcasterID = id
	}
	if sc.moderatorID == "" {
		id, err := sc.Helix.GetUserID(ctx, sc.BotUsername)
		if err != nil {
			return "", "", fmt.Errorf("resolve moderator: %w", err)
		}
		sc.moderatorID = id
	}
	return sc.broadcasterID, sc.moderatorID, nil
}
