package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tip-core/internal/handler/response"
	"tip-core/internal/model"
	"tip-core/internal/service/settlement"
	"tip-core/internal/testutil"
	"tip-core/pkg/errno"
	"tip-core/pkg/validator"
)

var (
	testTxHash = "0x" + strings.Repeat("ab", 32)
	testPayout = "0x" + strings.Repeat("b", 40)
)

const testQR = "TABKE7XK2M"

type fakeVerifier struct {
	got         settlement.Submission
	hasDeadline bool
	tipID       uint64
	err         error
}

func (f *fakeVerifier) Verify(ctx context.Context, sub settlement.Submission) (*settlement.Result, error) {
	f.got = sub
	_, f.hasDeadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return &settlement.Result{Tip: &model.Tip{ID: f.tipID}}, nil
}

func newTestRouter(db *gorm.DB, v TipVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.Init()

	r := gin.New()
	tips := NewTipHandler(v, db, 90*time.Second)
	qr := NewQRHandler(db)
	r.POST("/api/v1/tips/crypto", tips.SubmitCryptoTip)
	r.GET("/api/v1/tips/:tx_hash", tips.GetTip)
	r.GET("/api/v1/qr/:code", qr.GetTarget)
	r.GET("/api/v1/chains", ListChains)
	return r
}

func do(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"qr_code":                 testQR,
		"tx_hash":                 testTxHash,
		"from_address":            "0x" + strings.Repeat("a", 40),
		"chain_id":                8453,
		"amount_in_smallest_unit": "1000000000000000",
	}
}

func TestSubmitCryptoTip_Success(t *testing.T) {
	v := &fakeVerifier{tipID: 17}
	r := newTestRouter(testutil.NewTestDB(t), v)

	w := do(r, http.MethodPost, "/api/v1/tips/crypto", validBody())

	require.Equal(t, http.StatusOK, w.Code)
	var got response.TipAccepted
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, uint64(17), got.TipID)

	assert.Equal(t, uint64(8453), v.got.ChainID)
	assert.Equal(t, "1000000000000000", v.got.AmountNativeUnits)
	assert.Equal(t, testTxHash, v.got.TxHash)
	assert.True(t, v.hasDeadline)
}

func TestSubmitCryptoTip_ExternalQRCode(t *testing.T) {
	v := &fakeVerifier{tipID: 3}
	r := newTestRouter(testutil.NewTestDB(t), v)
	body := validBody()
	body["qr_code"] = "abc123"

	w := do(r, http.MethodPost, "/api/v1/tips/crypto", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "abc123", v.got.QRCode)
}

func TestSubmitCryptoTip_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      int
		retryable bool
	}{
		{"duplicate", errno.ErrDuplicateSubmission, http.StatusConflict, errno.ErrDuplicateSubmission.Code, false},
		{"in progress", errno.ErrVerificationInProgress, http.StatusConflict, errno.ErrVerificationInProgress.Code, true},
		{"recipient mismatch", errno.ErrRecipientMismatch, http.StatusUnprocessableEntity, errno.ErrRecipientMismatch.Code, false},
		{"receipt timeout", errno.ErrReceiptTimeout, http.StatusGatewayTimeout, errno.ErrReceiptTimeout.Code, true},
		{"price unavailable", errno.ErrPriceUnavailable, http.StatusServiceUnavailable, errno.ErrPriceUnavailable.Code, true},
		{"assignment", errno.ErrAssignmentNotFound, http.StatusNotFound, errno.ErrAssignmentNotFound.Code, false},
		{"unknown", assert.AnError, http.StatusInternalServerError, errno.InternalServerError.Code, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(testutil.NewTestDB(t), &fakeVerifier{err: tt.err})
			w := do(r, http.MethodPost, "/api/v1/tips/crypto", validBody())

			assert.Equal(t, tt.status, w.Code)
			var body response.ErrorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.retryable, body.Retryable)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestSubmitCryptoTip_BindingErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b map[string]interface{})
	}{
		{"missing qr", func(b map[string]interface{}) { delete(b, "qr_code") }},
		{"qr not url safe", func(b map[string]interface{}) { b["qr_code"] = "abc 123" }},
		{"bad tx hash", func(b map[string]interface{}) { b["tx_hash"] = "0x1234" }},
		{"bad from address", func(b map[string]interface{}) { b["from_address"] = "0xnothex" }},
		{"zero chain", func(b map[string]interface{}) { b["chain_id"] = 0 }},
		{"decimal amount", func(b map[string]interface{}) { b["amount_in_smallest_unit"] = "1.5" }},
		{"negative amount", func(b map[string]interface{}) { b["amount_in_smallest_unit"] = "-1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &fakeVerifier{tipID: 1}
			r := newTestRouter(testutil.NewTestDB(t), v)
			body := validBody()
			tt.mutate(body)

			w := do(r, http.MethodPost, "/api/v1/tips/crypto", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp response.ErrorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, errno.ErrInvalidSubmission.Code, resp.Code)
			assert.Empty(t, v.got.TxHash, "verifier must not run")
		})
	}
}

func TestGetTip(t *testing.T) {
	db := testutil.NewTestDB(t)
	tip := model.Tip{
		OrganizationID:    1,
		LocationID:        1,
		ServerID:          42,
		AssignmentID:      1,
		Source:            model.TipSourceCrypto,
		AmountCents:       300,
		Currency:          model.TipCurrencyUSD,
		Status:            model.TipStatusSucceeded,
		BlockchainNetwork: "base",
		ChainID:           8453,
		TxHash:            testTxHash,
		ToWalletAddress:   testPayout,
		TokenSymbol:       "ETH",
		AmountNative:      "1000000000000000",
		PriceUSD:          decimal.NewFromInt(3000),
		BlockNumber:       100,
		ReceivedAt:        time.Now(),
	}
	require.NoError(t, db.Create(&tip).Error)
	r := newTestRouter(db, &fakeVerifier{})

	// 大写哈希也能查到
	w := do(r, http.MethodGet, "/api/v1/tips/0x"+strings.ToUpper(testTxHash[2:]), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Code int       `json:"code"`
		Data model.Tip `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, tip.ID, resp.Data.ID)
	assert.Equal(t, int64(300), resp.Data.AmountCents)

	w = do(r, http.MethodGet, "/api/v1/tips/0x"+strings.Repeat("cd", 32), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQRHandler_GetTarget(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedAssignment(t, db, testQR, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	r := newTestRouter(db, &fakeVerifier{})

	w := do(r, http.MethodGet, "/api/v1/qr/"+testQR, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data TipTarget `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Sam", resp.Data.ServerDisplayName)
	assert.Equal(t, "Downtown", resp.Data.LocationName)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", resp.Data.PayoutWalletAddress)
	assert.NotEmpty(t, resp.Data.Chains)

	w = do(r, http.MethodGet, "/api/v1/qr/ZZZZZZZZZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQRHandler_GetTarget_ExternalCode(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.SeedAssignment(t, db, "abc123", testPayout)
	r := newTestRouter(db, &fakeVerifier{})

	w := do(r, http.MethodGet, "/api/v1/qr/abc123", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 格式合法但不存在的标识由任职查询返回 404，而不是 400
	w = do(r, http.MethodGet, "/api/v1/qr/abc124", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListChains(t *testing.T) {
	r := newTestRouter(testutil.NewTestDB(t), &fakeVerifier{})

	w := do(r, http.MethodGet, "/api/v1/chains", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []ChainInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	var ids []uint64
	for _, c := range resp.Data {
		ids = append(ids, c.ChainID)
	}
	assert.Contains(t, ids, uint64(8453))
	assert.Contains(t, ids, uint64(137))
}
