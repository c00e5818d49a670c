package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/basepulse/pulse-agent/pkg/logger"
)

// larkTextMessageContent 飞书文本消息内容结构
type larkTextMessageContent struct {
	Text string `json:"text"`
}

// larkMessage 飞书机器人消息结构
type larkMessage struct {
	MsgType string                 `json:"msg_type"`
	Content larkTextMessageContent `json:"content"`
}

// larkResponse 飞书机器人响应结构 (用于检查错误)
type larkResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// LarkNotifier 通过飞书机器人 Webhook 推送通知
type LarkNotifier struct {
	webhookUrl string
	client     *http.Client
}

func NewLarkNotifier(webhookUrl string) *LarkNotifier {
	return &LarkNotifier{
		webhookUrl: webhookUrl,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify 发送通知, 标题与正文拼接为一条文本消息, 失败时指数退避重试
func (l *LarkNotifier) Notify(ctx context.Context, n *Notification) error {
	if l.webhookUrl == "" {
		return fmt.Errorf("飞书 Webhook URL 为空")
	}

	text := n.Title
	if n.Content != "" {
		text += "\n\n" + n.Content
	}
	if text == "" {
		logger.Warn("尝试发送空通知，已跳过")
		return nil
	}

	op := func() error {
		return l.sendOnce(ctx, text)
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)

	if err := backoff.Retry(op, bo); err != nil {
		logger.Error("发送飞书通知失败", logger.FieldErr(err), logger.String("title", n.Title))
		return err
	}

	logger.Info("成功发送通知到飞书", logger.String("title", n.Title))
	return nil
}

func (l *LarkNotifier) sendOnce(ctx context.Context, text string) error {
	msg := larkMessage{
		MsgType: "text",
		Content: larkTextMessageContent{
			Text: text,
		},
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("序列化飞书消息失败: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.webhookUrl, bytes.NewBuffer(payload))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("创建飞书请求失败: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送飞书消息失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var larkResp larkResponse
		if err := json.NewDecoder(resp.Body).Decode(&larkResp); err == nil {
			return fmt.Errorf("发送飞书消息返回错误状态码 %d, Code: %d, Msg: %s", resp.StatusCode, larkResp.Code, larkResp.Msg)
		}
		return fmt.Errorf("发送飞书消息返回错误状态码 %d, 无法解析响应体", resp.StatusCode)
	}

	// 检查响应体中的 code 是否为 0 (成功)
	var larkResp larkResponse
	if err := json.NewDecoder(resp.Body).Decode(&larkResp); err == nil {
		if larkResp.Code != 0 {
			return fmt.Errorf("飞书API返回错误 Code: %d, Msg: %s", larkResp.Code, larkResp.Msg)
		}
	}

	return nil
}
