package classfile

const (
	Magic = 0xCAFEBABE

	// Emitted class files target Java 17; the Record attribute needs
	// major version 60 or newer.
	MajorVersion = 61
	MinorVersion = 0
)

type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020
	AccSynchronized AccessFlags = 0x0020
	AccVolatile     AccessFlags = 0x0040
	AccTransient    AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
)

func (f AccessFlags) IsPublic() bool       { return f&AccPublic != 0 }
func (f AccessFlags) IsPrivate() bool      { return f&AccPrivate != 0 }
func (f AccessFlags) IsProtected() bool    { return f&AccProtected != 0 }
func (f AccessFlags) IsStatic() bool       { return f&AccStatic != 0 }
func (f AccessFlags) IsFinal() bool        { return f&AccFinal != 0 }
func (f AccessFlags) IsSynchronized() bool { return f&AccSynchronized != 0 }
func (f AccessFlags) IsVolatile() bool     { return f&AccVolatile != 0 }
func (f AccessFlags) IsTransient() bool    { return f&AccTransient != 0 }
func (f AccessFlags) IsInterface() bool    { return f&AccInterface != 0 }
func (f AccessFlags) IsAbstract() bool     { return f&AccAbstract != 0 }
func (f AccessFlags) IsSynthetic() bool    { return f&AccSynthetic != 0 }
func (f AccessFlags) IsAnnotation() bool   { return f&AccAnnotation != 0 }
func (f AccessFlags) IsEnum() bool         { return f&AccEnum != 0 }

type ConstantTag uint8

const (
	ConstantUtf8               ConstantTag = 1
	ConstantInteger            ConstantTag = 3
	ConstantFloat              ConstantTag = 4
	ConstantLong               ConstantTag = 5
	ConstantDouble             ConstantTag = 6
	ConstantClass              ConstantTag = 7
	ConstantString             ConstantTag = 8
	ConstantFieldref           ConstantTag = 9
	ConstantMethodref          ConstantTag = 10
	ConstantInterfaceMethodref ConstantTag = 11
	ConstantNameAndType        ConstantTag = 12
)

// JVM opcodes used by the code generator.
const (
	OpNop        byte = 0x00
	OpAconstNull byte = 0x01
	OpIconstM1   byte = 0x02
	OpIconst0    byte = 0x03
	OpIconst1    byte = 0x04
	OpIconst2    byte = 0x05
	OpIconst3    byte = 0x06
	OpIconst4    byte = 0x07
	OpIconst5    byte = 0x08
	OpLconst0    byte = 0x09
	OpLconst1    byte = 0x0a
	OpFconst0    byte = 0x0b
	OpFconst1    byte = 0x0c
	OpFconst2    byte = 0x0d
	OpDconst0    byte = 0x0e
	OpDconst1    byte = 0x0f
	OpBipush     byte = 0x10
	OpSipush     byte = 0x11
	OpLdc        byte = 0x12
	OpLdcW       byte = 0x13
	OpLdc2W      byte = 0x14
	OpIload      byte = 0x15
	OpLload      byte = 0x16
	OpFload      byte = 0x17
	OpDload      byte = 0x18
	OpAload      byte = 0x19
	OpIstore     byte = 0x36
	OpLstore     byte = 0x37
	OpFstore     byte = 0x38
	OpDstore     byte = 0x39
	OpAstore     byte = 0x3a
	OpIastore    byte = 0x4f
	OpLastore    byte = 0x50
	OpFastore    byte = 0x51
	OpDastore    byte = 0x52
	OpAastore    byte = 0x53
	OpBastore    byte = 0x54
	OpCastore    byte = 0x55
	OpSastore    byte = 0x56
	OpPop        byte = 0x57
	OpDup        byte = 0x59

	OpIfeq     byte = 0x99
	OpIfne     byte = 0x9a
	OpIfIcmpeq byte = 0x9f
	OpIfIcmpne byte = 0xa0
	OpIfAcmpeq byte = 0xa5
	OpIfAcmpne byte = 0xa6
	OpGoto     byte = 0xa7

	OpIreturn byte = 0xac
	OpLreturn byte = 0xad
	OpFreturn byte = 0xae
	OpDreturn byte = 0xaf
	OpAreturn byte = 0xb0
	OpReturn  byte = 0xb1

	OpGetstatic       byte = 0xb2
	OpPutstatic       byte = 0xb3
	OpGetfield        byte = 0xb4
	OpPutfield        byte = 0xb5
	OpInvokevirtual   byte = 0xb6
	OpInvokespecial   byte = 0xb7
	OpInvokestatic    byte = 0xb8
	OpInvokeinterface byte = 0xb9

	OpNew         byte = 0xbb
	OpNewarray    byte = 0xbc
	OpAnewarray   byte = 0xbd
	OpArraylength byte = 0xbe
	OpCheckcast   byte = 0xc0
	OpIfnull      byte = 0xc6
	OpIfnonnull   byte = 0xc7
)

// newarray component type codes.
const (
	ArrayTypeBoolean byte = 4
	ArrayTypeChar    byte = 5
	ArrayTypeFloat   byte = 6
	ArrayTypeDouble  byte = 7
	ArrayTypeByte    byte = 8
	ArrayTypeShort   byte = 9
	ArrayTypeInt     byte = 10
	ArrayTypeLong    byte = 11
)

// Verification type tags used in StackMapTable frames.
const (
	VerificationTop     byte = 0
	VerificationInteger byte = 1
	VerificationFloat   byte = 2
	VerificationDouble  byte = 3
	VerificationLong    byte = 4
	VerificationNull    byte = 5
	VerificationObject  byte = 7
)
