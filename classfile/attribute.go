package classfile

import (
	"encoding/binary"
)

type AttributeInfo struct {
	NameIndex uint16
	Info      []byte
	Parsed    interface{}
}

type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionTableEntry
	Attributes     []AttributeInfo
}

type ExceptionTableEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

type SourceFileAttribute struct {
	SourceFileIndex uint16
}

type ConstantValueAttribute struct {
	ConstantValueIndex uint16
}

type ExceptionsAttribute struct {
	ExceptionIndexTable []uint16
}

type SignatureAttribute struct {
	SignatureIndex uint16
}

type RecordAttribute struct {
	Components []RecordComponentInfo
}

type RecordComponentInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

// VerificationType is one entry of a stack map frame. PoolIndex is only
// meaningful for Object entries.
type VerificationType struct {
	Tag       byte
	PoolIndex uint16
}

// StackMapFrame is always written in full_frame form; the offset delta
// follows the format's cumulative encoding.
type StackMapFrame struct {
	OffsetDelta uint16
	Locals      []VerificationType
	Stack       []VerificationType
}

type StackMapTableAttribute struct {
	Frames []StackMapFrame
}

type Annotation struct {
	TypeIndex         uint16
	ElementValuePairs []ElementValuePair
}

type ElementValuePair struct {
	ElementNameIndex uint16
	Value            ElementValue
}

type ElementValue struct {
	Tag   byte
	Value interface{}
}

type EnumConstValue struct {
	TypeNameIndex  uint16
	ConstNameIndex uint16
}

type ArrayValue struct {
	Values []ElementValue
}

type RuntimeVisibleAnnotationsAttribute struct {
	Annotations []Annotation
}

func (a *AttributeInfo) AsCode() *CodeAttribute {
	if parsed, ok := a.Parsed.(*CodeAttribute); ok {
		return parsed
	}
	return nil
}

func (a *AttributeInfo) AsSourceFile() *SourceFileAttribute {
	if parsed, ok := a.Parsed.(*SourceFileAttribute); ok {
		return parsed
	}
	return nil
}

func (a *AttributeInfo) AsConstantValue() *ConstantValueAttribute {
	if parsed, ok := a.Parsed.(*ConstantValueAttribute); ok {
		return parsed
	}
	return nil
}

func (a *AttributeInfo) AsExceptions() *ExceptionsAttribute {
	if parsed, ok := a.Parsed.(*ExceptionsAttribute); ok {
		return parsed
	}
	return nil
}

func (a *AttributeInfo) AsSignature() *SignatureAttribute {
	if parsed, ok := a.Parsed.(*SignatureAttribute); ok {
		return parsed
	}
	return nil
}

func (a *AttributeInfo) AsRecord() *RecordAttribute {
	if parsed, ok := a.Parsed.(*RecordAttribute); ok {
		return parsed
	}
	return nil
}

func (a *AttributeInfo) AsStackMapTable() *StackMapTableAttribute {
	if parsed, ok := a.Parsed.(*StackMapTableAttribute); ok {
		return parsed
	}
	return nil
}

func (a *AttributeInfo) AsRuntimeVisibleAnnotations() *RuntimeVisibleAnnotationsAttribute {
	if parsed, ok := a.Parsed.(*RuntimeVisibleAnnotationsAttribute); ok {
		return parsed
	}
	return nil
}

func parseCodeAttribute(info []byte, cp ConstantPool) *CodeAttribute {
	if len(info) < 8 {
		return nil
	}

	code := &CodeAttribute{
		MaxStack:  binary.BigEndian.Uint16(info[0:2]),
		MaxLocals: binary.BigEndian.Uint16(info[2:4]),
	}

	codeLength := binary.BigEndian.Uint32(info[4:8])
	if len(info) < 8+int(codeLength) {
		return nil
	}
	code.Code = info[8 : 8+codeLength]

	offset := 8 + int(codeLength)
	if len(info) < offset+2 {
		return nil
	}
	exceptionCount := binary.BigEndian.Uint16(info[offset : offset+2])
	offset += 2

	code.ExceptionTable = make([]ExceptionTableEntry, exceptionCount)
	for i := uint16(0); i < exceptionCount; i++ {
		if len(info) < offset+8 {
			return nil
		}
		code.ExceptionTable[i] = ExceptionTableEntry{
			StartPC:   binary.BigEndian.Uint16(info[offset : offset+2]),
			EndPC:     binary.BigEndian.Uint16(info[offset+2 : offset+4]),
			HandlerPC: binary.BigEndian.Uint16(info[offset+4 : offset+6]),
			CatchType: binary.BigEndian.Uint16(info[offset+6 : offset+8]),
		}
		offset += 8
	}

	if len(info) < offset+2 {
		return nil
	}
	attrCount := binary.BigEndian.Uint16(info[offset : offset+2])
	offset += 2

	for i := uint16(0); i < attrCount; i++ {
		if len(info) < offset+6 {
			return nil
		}
		nameIndex := binary.BigEndian.Uint16(info[offset : offset+2])
		length := binary.BigEndian.Uint32(info[offset+2 : offset+6])
		offset += 6
		if len(info) < offset+int(length) {
			return nil
		}
		attrInfo := info[offset : offset+int(length)]
		offset += int(length)

		attr := AttributeInfo{NameIndex: nameIndex, Info: attrInfo}
		if cp.GetUtf8(nameIndex) == "StackMapTable" {
			attr.Parsed = parseStackMapTableAttribute(attrInfo)
		}
		code.Attributes = append(code.Attributes, attr)
	}

	return code
}

func parseSourceFileAttribute(info []byte) *SourceFileAttribute {
	if len(info) < 2 {
		return nil
	}
	return &SourceFileAttribute{
		SourceFileIndex: binary.BigEndian.Uint16(info[0:2]),
	}
}

func parseConstantValueAttribute(info []byte) *ConstantValueAttribute {
	if len(info) < 2 {
		return nil
	}
	return &ConstantValueAttribute{
		ConstantValueIndex: binary.BigEndian.Uint16(info[0:2]),
	}
}

func parseExceptionsAttribute(info []byte) *ExceptionsAttribute {
	if len(info) < 2 {
		return nil
	}
	count := binary.BigEndian.Uint16(info[0:2])
	if len(info) < 2+int(count)*2 {
		return nil
	}
	attr := &ExceptionsAttribute{
		ExceptionIndexTable: make([]uint16, count),
	}
	for i := uint16(0); i < count; i++ {
		attr.ExceptionIndexTable[i] = binary.BigEndian.Uint16(info[2+i*2 : 4+i*2])
	}
	return attr
}

func parseSignatureAttribute(info []byte) *SignatureAttribute {
	if len(info) < 2 {
		return nil
	}
	return &SignatureAttribute{
		SignatureIndex: binary.BigEndian.Uint16(info[0:2]),
	}
}

func parseRecordAttribute(info []byte, cp ConstantPool) *RecordAttribute {
	if len(info) < 2 {
		return nil
	}
	count := binary.BigEndian.Uint16(info[0:2])
	attr := &RecordAttribute{
		Components: make([]RecordComponentInfo, 0, count),
	}
	offset := 2
	for i := uint16(0); i < count; i++ {
		if len(info) < offset+6 {
			return nil
		}
		comp := RecordComponentInfo{
			NameIndex:       binary.BigEndian.Uint16(info[offset : offset+2]),
			DescriptorIndex: binary.BigEndian.Uint16(info[offset+2 : offset+4]),
		}
		attrCount := binary.BigEndian.Uint16(info[offset+4 : offset+6])
		offset += 6
		for j := uint16(0); j < attrCount; j++ {
			if len(info) < offset+6 {
				return nil
			}
			nameIndex := binary.BigEndian.Uint16(info[offset : offset+2])
			length := binary.BigEndian.Uint32(info[offset+2 : offset+6])
			offset += 6
			if len(info) < offset+int(length) {
				return nil
			}
			comp.Attributes = append(comp.Attributes, AttributeInfo{
				NameIndex: nameIndex,
				Info:      info[offset : offset+int(length)],
			})
			offset += int(length)
		}
		attr.Components = append(attr.Components, comp)
	}
	return attr
}

// parseStackMapTableAttribute decodes only full_frame entries, which is
// the single form the writer emits.
func parseStackMapTableAttribute(info []byte) *StackMapTableAttribute {
	if len(info) < 2 {
		return nil
	}
	count := binary.BigEndian.Uint16(info[0:2])
	attr := &StackMapTableAttribute{
		Frames: make([]StackMapFrame, 0, count),
	}
	offset := 2
	for i := uint16(0); i < count; i++ {
		if len(info) < offset+1 || info[offset] != 255 {
			return nil
		}
		offset++
		if len(info) < offset+4 {
			return nil
		}
		frame := StackMapFrame{
			OffsetDelta: binary.BigEndian.Uint16(info[offset : offset+2]),
		}
		localCount := binary.BigEndian.Uint16(info[offset+2 : offset+4])
		offset += 4
		var ok bool
		frame.Locals, offset, ok = parseVerificationTypes(info, offset, localCount)
		if !ok {
			return nil
		}
		if len(info) < offset+2 {
			return nil
		}
		stackCount := binary.BigEndian.Uint16(info[offset : offset+2])
		offset += 2
		frame.Stack, offset, ok = parseVerificationTypes(info, offset, stackCount)
		if !ok {
			return nil
		}
		attr.Frames = append(attr.Frames, frame)
	}
	return attr
}

func parseVerificationTypes(info []byte, offset int, count uint16) ([]VerificationType, int, bool) {
	types := make([]VerificationType, 0, count)
	for i := uint16(0); i < count; i++ {
		if len(info) <= offset {
			return nil, offset, false
		}
		vt := VerificationType{Tag: info[offset]}
		offset++
		if vt.Tag == VerificationObject {
			if len(info) < offset+2 {
				return nil, offset, false
			}
			vt.PoolIndex = binary.BigEndian.Uint16(info[offset : offset+2])
			offset += 2
		}
		types = append(types, vt)
	}
	return types, offset, true
}

func parseElementValue(info []byte, offset int) (ElementValue, int) {
	if len(info) <= offset {
		return ElementValue{}, offset
	}

	tag := info[offset]
	offset++

	ev := ElementValue{Tag: tag}

	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's', 'c':
		if len(info) < offset+2 {
			return ev, offset
		}
		ev.Value = binary.BigEndian.Uint16(info[offset : offset+2])
		offset += 2

	case 'e':
		if len(info) < offset+4 {
			return ev, offset
		}
		ev.Value = EnumConstValue{
			TypeNameIndex:  binary.BigEndian.Uint16(info[offset : offset+2]),
			ConstNameIndex: binary.BigEndian.Uint16(info[offset+2 : offset+4]),
		}
		offset += 4

	case '[':
		if len(info) < offset+2 {
			return ev, offset
		}
		count := binary.BigEndian.Uint16(info[offset : offset+2])
		offset += 2
		av := ArrayValue{Values: make([]ElementValue, count)}
		for i := uint16(0); i < count; i++ {
			av.Values[i], offset = parseElementValue(info, offset)
		}
		ev.Value = av
	}

	return ev, offset
}

func parseAnnotation(info []byte, offset int) (Annotation, int) {
	ann := Annotation{}
	if len(info) < offset+4 {
		return ann, offset
	}

	ann.TypeIndex = binary.BigEndian.Uint16(info[offset : offset+2])
	numPairs := binary.BigEndian.Uint16(info[offset+2 : offset+4])
	offset += 4

	ann.ElementValuePairs = make([]ElementValuePair, numPairs)
	for i := uint16(0); i < numPairs; i++ {
		if len(info) < offset+2 {
			return ann, offset
		}
		pair := ElementValuePair{
			ElementNameIndex: binary.BigEndian.Uint16(info[offset : offset+2]),
		}
		offset += 2
		pair.Value, offset = parseElementValue(info, offset)
		ann.ElementValuePairs[i] = pair
	}

	return ann, offset
}

func parseRuntimeVisibleAnnotationsAttribute(info []byte) *RuntimeVisibleAnnotationsAttribute {
	if len(info) < 2 {
		return nil
	}
	numAnnotations := binary.BigEndian.Uint16(info[0:2])
	rva := &RuntimeVisibleAnnotationsAttribute{
		Annotations: make([]Annotation, numAnnotations),
	}
	offset := 2
	for i := uint16(0); i < numAnnotations; i++ {
		rva.Annotations[i], offset = parseAnnotation(info, offset)
	}
	return rva
}
