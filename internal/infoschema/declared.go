package infoschema

// Tables below are declared so that SELECT * FROM information_schema.<name>
// succeeds for MySQL clients. They never have rows.

var eventsColumns = []string{
	"EVENT_CATALOG",
	"EVENT_SCHEMA",
	"EVENT_NAME",
	"DEFINER",
	"TIME_ZONE",
	"EVENT_BODY",
	"EVENT_DEFINITION",
	"EVENT_TYPE",
	"EXECUTE_AT",
	"INTERVAL_VALUE",
	"INTERVAL_FIELD",
	"SQL_MODE",
	"STARTS",
	"ENDS",
	"STATUS",
	"ON_COMPLETION",
	"CREATED",
	"LAST_ALTERED",
	"LAST_EXECUTED",
	"EVENT_COMMENT",
	"ORIGINATOR",
	"CHARACTER_SET_CLIENT",
	"COLLATION_CONNECTION",
	"DATABASE_COLLATION",
}

var routinesColumns = []string{
	"SPECIFIC_NAME",
	"ROUTINE_CATALOG",
	"ROUTINE_SCHEMA",
	"ROUTINE_NAME",
	"ROUTINE_TYPE",
	"DATA_TYPE",
	"CHARACTER_MAXIMUM_LENGTH",
	"CHARACTER_OCTET_LENGTH",
	"NUMERIC_PRECISION",
	"NUMERIC_SCALE",
	"DATETIME_PRECISION",
	"CHARACTER_SET_NAME",
	"COLLATION_NAME",
	"DTD_IDENTIFIER",
	"ROUTINE_BODY",
	"ROUTINE_DEFINITION",
	"EXTERNAL_NAME",
	"EXTERNAL_LANGUAGE",
	"PARAMETER_STYLE",
	"IS_DETERMINISTIC",
	"SQL_DATA_ACCESS",
	"SQL_PATH",
	"SECURITY_TYPE",
	"CREATED",
	"LAST_ALTERED",
	"SQL_MODE",
	"ROUTINE_COMMENT",
	"DEFINER",
	"CHARACTER_SET_CLIENT",
	"COLLATION_CONNECTION",
	"DATABASE_COLLATION",
}

var pluginsColumns = []string{
	"PLUGIN_NAME",
	"PLUGIN_VERSION",
	"PLUGIN_STATUS",
	"PLUGIN_TYPE",
	"PLUGIN_TYPE_VERSION",
	"PLUGIN_LIBRARY",
	"PLUGIN_LIBRARY_VERSION",
	"PLUGIN_AUTHOR",
	"PLUGIN_DESCRIPTION",
	"PLUGIN_LICENSE",
	"LOAD_OPTION",
	"PLUGIN_MATURITY",
	"PLUGIN_AUTH_VERSION",
}

var keyColumnUsageColumns = []string{
	"CONSTRAINT_CATALOG",
	"CONSTRAINT_SCHEMA",
	"CONSTRAINT_NAME",
	"TABLE_CATALOG",
	"TABLE_SCHEMA",
	"TABLE_NAME",
	"COLUMN_NAME",
	"ORDINAL_POSITION",
	"POSITION_IN_UNIQUE_CONSTRAINT",
	"REFERENCED_TABLE_SCHEMA",
	"REFERENCED_TABLE_NAME",
	"REFERENCED_COLUMN_NAME",
}

var statisticsColumns = []string{
	"TABLE_CATALOG",
	"TABLE_SCHEMA",
	"TABLE_NAME",
	"NON_UNIQUE",
	"INDEX_SCHEMA",
	"INDEX_NAME",
	"SEQ_IN_INDEX",
	"COLUMN_NAME",
	"COLLATION",
	"CARDINALITY",
	"SUB_PART",
	"PACKED",
	"NULLABLE",
	"INDEX_TYPE",
	"COMMENT",
	"INDEX_COMMENT",
	"IS_VISIBLE",
	"EXPRESSION",
}
