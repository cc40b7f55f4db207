// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deltas implements the state-delta extractor (C2): for each
// accepted block, it walks a fixed, wire-stable set of tables and produces
// a compact per-table delta (additions, modifications, removals) from the
// chain database's undo stack.
package deltas

// Table is one of the sixteen table tags the extractor knows about. Clients
// rely on tag stability, so this set is closed.
type Table string

const (
	Account                 Table = "account"
	ContractTable           Table = "contract_table"
	ContractRow             Table = "contract_row"
	ContractIndex64         Table = "contract_index64"
	ContractIndex128        Table = "contract_index128"
	ContractIndex256        Table = "contract_index256"
	ContractIndexDouble     Table = "contract_index_double"
	ContractIndexLongDouble Table = "contract_index_long_double"
	GlobalProperty          Table = "global_property"
	GeneratedTransaction    Table = "generated_transaction"
	Permission              Table = "permission"
	PermissionLink          Table = "permission_link"
	ResourceLimits          Table = "resource_limits"
	ResourceUsage           Table = "resource_usage"
	ResourceLimitsState     Table = "resource_limits_state"
	ResourceLimitsConfig    Table = "resource_limits_config"
)

// Tables is the order the extractor processes tables in. This order is part
// of the wire contract (§6): the sequence of deltas within a block must
// match it exactly.
var Tables = []Table{
	Account,
	ContractTable,
	ContractRow,
	ContractIndex64,
	ContractIndex128,
	ContractIndex256,
	ContractIndexDouble,
	ContractIndexLongDouble,
	GlobalProperty,
	GeneratedTransaction,
	Permission,
	PermissionLink,
	ResourceLimits,
	ResourceUsage,
	ResourceLimitsState,
	ResourceLimitsConfig,
}

// ScopedByContractTable is the set of tables whose rows carry a t_id field
// referencing a contract_table row; their packer must resolve that
// reference per §4.2 instead of packing the row alone.
var ScopedByContractTable = map[Table]bool{
	ContractRow:             true,
	ContractIndex64:         true,
	ContractIndex128:        true,
	ContractIndex256:        true,
	ContractIndexDouble:     true,
	ContractIndexLongDouble: true,
}
