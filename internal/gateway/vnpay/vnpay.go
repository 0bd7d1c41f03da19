package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"gym-booking/pkg/utils"
)

// Gateway callback/query parameter names.
const (
	ParamTxnRef        = "vnp_TxnRef"
	ParamTransactionNo = "vnp_TransactionNo"
	ParamResponseCode  = "vnp_ResponseCode"
	ParamSecureHash    = "vnp_SecureHash"

	// ResponseCodeSuccess is the only response code that denotes a paid order.
	ResponseCodeSuccess = "00"
)

// Client builds signed redirect URLs and verifies inbound callbacks for the
// VNPay gateway. The shared HashSecret never leaves this package.
type Client struct {
	cfg utils.VNPayConfig
}

func NewClient(cfg utils.VNPayConfig) *Client {
	return &Client{cfg: cfg}
}

// Name returns the gateway identifier stored on gateway records.
func (c *Client) Name() string {
	return "vnpay"
}

// BuildPaymentURL constructs the redirect-out URL: fixed key set, amount in
// minor units, all keys signed in lexicographic order with HMAC-SHA512.
func (c *Client) BuildPaymentURL(orderID string, amount float64, orderInfo, clientIP string, createdAt time.Time) string {
	params := url.Values{}
	params.Set("vnp_Version", "2.1.0")
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", c.cfg.TmnCode)
	params.Set("vnp_Amount", fmt.Sprintf("%d", int64(amount*100)))
	params.Set("vnp_CreateDate", createdAt.Format("20060102150405"))
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_IpAddr", clientIP)
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_OrderInfo", orderInfo)
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_ReturnUrl", c.cfg.ReturnURL)
	params.Set(ParamTxnRef, orderID)

	// url.Values.Encode sorts keys lexicographically, which is exactly the
	// ordering the gateway signs over.
	encoded := params.Encode()
	signature := c.sign(encoded)

	return fmt.Sprintf("%s?%s&%s=%s", c.cfg.PayURL, encoded, ParamSecureHash, signature)
}

// VerifyCallback recomputes the signature over every parameter except the
// signature fields and compares it in constant time. A mismatch means the
// callback must not touch any state.
func (c *Client) VerifyCallback(params url.Values) bool {
	supplied := params.Get(ParamSecureHash)
	if supplied == "" || c.cfg.HashSecret == "" {
		return false
	}

	filtered := url.Values{}
	for key, values := range params {
		if key == ParamSecureHash || key == "vnp_SecureHashType" {
			continue
		}
		for _, v := range values {
			filtered.Add(key, v)
		}
	}

	expected := c.sign(filtered.Encode())
	return hmac.Equal([]byte(supplied), []byte(expected))
}

// CallbackData is the subset of callback parameters the reconciler consumes.
type CallbackData struct {
	OrderID       string
	TransactionNo string
	ResponseCode  string
}

// ParseCallback extracts the reconciliation keys from verified parameters.
func ParseCallback(params url.Values) (*CallbackData, error) {
	data := &CallbackData{
		OrderID:       params.Get(ParamTxnRef),
		TransactionNo: params.Get(ParamTransactionNo),
		ResponseCode:  params.Get(ParamResponseCode),
	}

	if data.OrderID == "" {
		return nil, fmt.Errorf("callback missing %s", ParamTxnRef)
	}
	if data.ResponseCode == "" {
		return nil, fmt.Errorf("callback missing %s", ParamResponseCode)
	}

	return data, nil
}

func (c *Client) sign(encoded string) string {
	mac := hmac.New(sha512.New, []byte(c.cfg.HashSecret))
	mac.Write([]byte(encoded))
	return hex.EncodeToString(mac.Sum(nil))
}
