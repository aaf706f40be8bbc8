// Package hid 描述一个单指数字化触摸板 (HID Digitizer / Touch Pad)，并把触点编码为输入报告。
package hid

// 描述符类型 (HID 1.11 §7.1)
const (
	DescriptorTypeHID    byte = 0x21
	DescriptorTypeReport byte = 0x22
)

// LogicalMax 是 X/Y 的逻辑最大值
const LogicalMax = 4095

var reportDescriptor = []byte{
	0x05, 0x0d,       // USAGE_PAGE (Digitizers)
	0x09, 0x05,       // USAGE (Touch Pad)
	0xa1, 0x01,       // COLLECTION (Application)
	0x09, 0x22,       //   USAGE (Finger)
	0xa1, 0x02,       //   COLLECTION (Logical)
	0x15, 0x00,       //     LOGICAL_MINIMUM (0)
	0x25, 0x01,       //     LOGICAL_MAXIMUM (1)
	0x09, 0x47,       //     USAGE (Confidence)
	0x09, 0x42,       //     USAGE (Tip Switch)
	0x95, 0x02,       //     REPORT_COUNT (2)
	0x75, 0x01,       //     REPORT_SIZE (1)
	0x81, 0x02,       //     INPUT (Data,Var,Abs)
	0x95, 0x06,       //     REPORT_COUNT (6) 填充位
	0x81, 0x03,       //     INPUT (Cnst,Var,Abs)
	0x05, 0x01,       //     USAGE_PAGE (Generic Desktop)
	0x15, 0x00,       //     LOGICAL_MINIMUM (0)
	0x26, 0xff, 0x0f, //     LOGICAL_MAXIMUM (4095)
	0x75, 0x10,       //     REPORT_SIZE (16)
	0x55, 0x0e,       //     UNIT_EXPONENT (-2)
	0x65, 0x13,       //     UNIT (Inch, EngLinear)
	0x09, 0x30,       //     USAGE (X)
	0x35, 0x00,       //     PHYSICAL_MINIMUM (0)
	0x46, 0x90, 0x01, //     PHYSICAL_MAXIMUM (400)
	0x95, 0x01,       //     REPORT_COUNT (1)
	0x81, 0x02,       //     INPUT (Data,Var,Abs)
	0x46, 0x13, 0x01, //     PHYSICAL_MAXIMUM (275)
	0x09, 0x31,       //     USAGE (Y)
	0x81, 0x02,       //     INPUT (Data,Var,Abs)
	0xc0,             //   END_COLLECTION
	0xc0,             // END_COLLECTION
}

// ReportDescriptor 返回报告描述符的副本
func ReportDescriptor() []byte {
	out := make([]byte, len(reportDescriptor))
	copy(out, reportDescriptor)
	return out
}

// ClassDescriptor 返回 9 字节的 HID 类描述符：bcdHID 1.11，一个报告描述符。
func ClassDescriptor() []byte {
	n := len(reportDescriptor)
	return []byte{
		0x09,                  // bLength
		DescriptorTypeHID,     // bDescriptorType
		0x11, 0x01,            // bcdHID 1.11
		0x00,                  // bCountryCode
		0x01,                  // bNumDescriptors
		DescriptorTypeReport,  // bDescriptorType[0]
		byte(n), byte(n >> 8), // wDescriptorLength[0]
	}
}
