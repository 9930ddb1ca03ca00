package ui

// iconBytes is a 16x16 PNG used as the tray icon.
var iconBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0xf3, 0xff, 0x61, 0x00, 0x00, 0x00,
	0x22, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0xd0, 0xd0, 0x31, 0xf9,
	0x4f, 0x09, 0x66, 0x18, 0x5c, 0x06, 0xb8, 0x35, 0x6d, 0x21, 0x0a, 0x8f,
	0x1a, 0x30, 0x6a, 0x00, 0x6d, 0x0d, 0x18, 0x9a, 0x99, 0x09, 0x00, 0xd3,
	0x36, 0xe6, 0x60, 0x8a, 0xa1, 0x4c, 0x5e, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
