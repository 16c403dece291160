package zcl

import "slices"

// Access flags
const (
	AccessRead   uint8 = 0x01
	AccessWrite  uint8 = 0x02
	AccessReport uint8 = 0x04
)

// AttributeDef defines a ZCL attribute. A non-zero Manufacturer marks a
// manufacturer-specific attribute that must be accessed with that code.
type AttributeDef struct {
	ID           uint16 `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Type         uint8  `json:"type" yaml:"type"`
	Access       uint8  `json:"access" yaml:"access"` // bitmask: 1=read, 2=write, 4=reportable
	Manufacturer uint16 `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
}

// IsReadable returns true if the attribute can be read.
func (a *AttributeDef) IsReadable() bool {
	return a.Access&AccessRead != 0
}

// IsWritable returns true if the attribute can be written.
func (a *AttributeDef) IsWritable() bool {
	return a.Access&AccessWrite != 0
}

// IsReportable returns true if the attribute supports reporting.
func (a *AttributeDef) IsReportable() bool {
	return a.Access&AccessReport != 0
}

// CommandDirection indicates the direction of a cluster command.
type CommandDirection string

const (
	DirectionToServer CommandDirection = "toServer"
	DirectionToClient CommandDirection = "toClient"
)

// CommandDef defines a cluster-specific command.
type CommandDef struct {
	ID        uint8            `json:"id" yaml:"id"`
	Name      string           `json:"name" yaml:"name"`
	Direction CommandDirection `json:"direction" yaml:"direction"`
}

// ClusterDef defines a ZCL cluster with its attributes and commands.
type ClusterDef struct {
	ID         uint16         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	Attributes []AttributeDef `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Commands   []CommandDef   `json:"commands,omitempty" yaml:"commands,omitempty"`
}

// FindAttribute looks up an attribute by ID.
func (c *ClusterDef) FindAttribute(id uint16) *AttributeDef {
	for i := range c.Attributes {
		if c.Attributes[i].ID == id {
			return &c.Attributes[i]
		}
	}
	return nil
}

// FindCommand looks up a command by ID and direction.
func (c *ClusterDef) FindCommand(id uint8, dir CommandDirection) *CommandDef {
	for i := range c.Commands {
		if c.Commands[i].ID == id && c.Commands[i].Direction == dir {
			return &c.Commands[i]
		}
	}
	return nil
}

func (c *ClusterDef) clone() *ClusterDef {
	cp := *c
	cp.Attributes = slices.Clone(c.Attributes)
	cp.Commands = slices.Clone(c.Commands)
	return &cp
}

// Merge adds attributes and commands from another definition. Entries already
// present are kept; a name is adopted only when c has none.
func (c *ClusterDef) Merge(other *ClusterDef) {
	if c.Name == "" {
		c.Name = other.Name
	}
	for _, attr := range other.Attributes {
		if c.FindAttribute(attr.ID) == nil {
			c.Attributes = append(c.Attributes, attr)
		}
	}
	for _, cmd := range other.Commands {
		if c.FindCommand(cmd.ID, cmd.Direction) == nil {
			c.Commands = append(c.Commands, cmd)
		}
	}
}
