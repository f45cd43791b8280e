package sid

import (
	"github.com/duke-git/lancet/v2/convertor"
	"github.com/sony/sonyflake"
)

type Sid struct {
	sf *sonyflake.Sonyflake
}

func NewSid() *Sid {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{})
	if sf == nil {
		panic("sonyflake not created")
	}
	return &Sid{sf}
}

// GenString 生成base62编码的短ID字符串
func (s Sid) GenString() (string, error) {
	id, err := s.sf.NextID()
	if err != nil {
		return "", err
	}
	return convertor.ToString(IntToBase62(int(id))), nil
}

func (s Sid) GenUint64() (uint64, error) {
	return s.sf.NextID()
}
