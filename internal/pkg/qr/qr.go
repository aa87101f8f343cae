package qr

import (
	"encoding/base64"
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

var ErrEmptyPayload = errors.New("qr payload is empty")

const defaultSize = 256

// EncodePNG 将收款地址编码为 PNG 二维码。
// 相同的 payload 和 size 生成的字节是确定的。
func EncodePNG(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	if size <= 0 {
		size = defaultSize
	}

	return qrcode.Encode(payload, qrcode.Medium, size)
}

// EncodeDataURI 编码为可直接内嵌到 <img> 的 data URI
func EncodeDataURI(payload string, size int) (string, error) {
	png, err := EncodePNG(payload, size)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(png)), nil
}
