package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"

	"staff-meal-api/pkg/models"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"
)

// QRコード画像の一辺のピクセル数。
const qrImageSize = 512

// QRService は注文のQRコード化とその読み取りを行います。
// QRコードには注文のJSON表現がそのまま載ります。
type QRService struct {
	log *logrus.Logger
}

// NewQRService は新しいQRServiceを生成します。
func NewQRService(log *logrus.Logger) *QRService {
	return &QRService{log: log}
}

// EncodeOrder は注文をQRコードのPNG画像にします。
func (s *QRService) EncodeOrder(order *models.Order) ([]byte, error) {
	if err := order.Validate(); err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}

	data, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("注文のJSON化に失敗: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("QRコードの生成に失敗: %w", err)
	}

	s.log.Infof("📱 QRコードを生成: order_id=%s (%d bytes)", order.OrderID, len(png))
	return png, nil
}

// DecodeOrder はQRコード画像から注文を読み取ります。QRコードが
// 見つからない場合や、中身が注文のJSON形式でない場合はエラーです。
func (s *QRService) DecodeOrder(imageData []byte) (*models.Order, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("画像の読み込みに失敗: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("画像の変換に失敗: %w", err)
	}

	result, err := zxqrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return nil, fmt.Errorf("no QR code found in image: %w", err)
	}

	order, err := models.ParseOrderJSON([]byte(result.GetText()))
	if err != nil {
		return nil, err
	}

	s.log.Infof("📱 QRコードを読取: order_id=%s items=%d", order.OrderID, len(order.Items))
	return order, nil
}

// GenerateDemoOrder は検品フローの確認用にランダムな注文を作ります。
// 注文IDは "ORD-{10000..99999}" 形式です。
func (s *QRService) GenerateDemoOrder() *models.Order {
	catalog := models.AllMenuItems()
	rand.Shuffle(len(catalog), func(i, j int) { catalog[i], catalog[j] = catalog[j], catalog[i] })

	count := 1 + rand.Intn(4)
	items := make([]models.OrderItem, 0, count)
	for _, item := range catalog[:count] {
		items = append(items, models.OrderItem{Item: item, Quantity: 1 + rand.Intn(3)})
	}

	source := models.SourceUberEats
	if rand.Intn(2) == 1 {
		source = models.SourceDeliveroo
	}

	return &models.Order{
		OrderID: fmt.Sprintf("ORD-%d", 10000+rand.Intn(90000)),
		Source:  source,
		Items:   items,
	}
}
