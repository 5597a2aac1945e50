package sid

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sony/sonyflake"
)

// 实例 sid 前缀，生成结果固定 9-14 个字符
const sidPrefix = "p1"

type Sid struct {
	sf *sonyflake.Sonyflake
}

func NewSid() *Sid {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if sf == nil {
		panic("sonyflake not created")
	}
	return &Sid{sf}
}

// NewSidWithMachineID 容器内没有私有 IP 时使用固定 machine id
func NewSidWithMachineID(id uint16) *Sid {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MachineID: func() (uint16, error) { return id, nil },
	})
	if sf == nil {
		panic("sonyflake not created")
	}
	return &Sid{sf}
}

func (s Sid) GenString() (string, error) {
	id, err := s.sf.NextID()
	if err != nil {
		return "", fmt.Errorf("failed to generate unique ID: %w", err)
	}
	return sidPrefix + strconv.FormatUint(id, 36), nil
}

func (s Sid) GenUint64() (uint64, error) {
	return s.sf.NextID()
}
